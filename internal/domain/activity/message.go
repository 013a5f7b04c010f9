package activity

import (
	"fmt"
	"strings"
)

// MessageParts carries the display forms of an action's participants.
// Target is empty when the action has no target or it could not be resolved.
type MessageParts struct {
	User   string
	Object string
	Target string
}

// ComposeActionMessage builds the untranslated action sentence.
//
// With a preposition and a resolved target:
//
//	"alice has assigned bob to Fix login"
//
// Otherwise the target clause is dropped and any preposition stays in front
// of the object:
//
//	"alice has commented on Fix login"
//	"alice has created Website"
func ComposeActionMessage(t ActionType, p MessageParts) string {
	if t.HasPreposition() && p.Target != "" {
		return fmt.Sprintf("%s has %s %s %s %s", p.User, t.Verb, p.Object, t.Preposition, p.Target)
	}
	words := []string{p.User, "has", t.Verb}
	if t.HasPreposition() {
		words = append(words, t.Preposition)
	}
	words = append(words, p.Object)
	return strings.TrimSpace(strings.Join(words, " "))
}

// ComposeNotificationMessage builds the notification sentence addressed to
// the receiver. Preposition and target are always interpolated, empty or not.
func ComposeNotificationMessage(t ActionType, p MessageParts) string {
	return fmt.Sprintf("%s has %s %s %s %s", p.User, t.Verb, "you", t.Preposition, p.Target)
}

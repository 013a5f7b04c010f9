package activity

import (
	"strings"

	"github.com/yigitunlu/heroject/internal/domain"
)

const (
	maxTypeNameLen    = 30
	maxVerbLen        = 40
	maxPrepositionLen = 20
)

// ActionType is a catalog entry describing how an action reads in a sentence:
// "comment" -> verb "commented", preposition "on".
type ActionType struct {
	Name        string
	Verb        string
	Preposition string
}

// Validate checks business rules for the ActionType entity.
// Returns a *domain.ValidationError (wrapping domain.ErrValidation) with per-field details,
// or nil if all rules pass.
func (t *ActionType) Validate() error {
	fields := make(map[string]string)

	checkText(fields, "name", t.Name, maxTypeNameLen, true)
	checkText(fields, "verb", t.Verb, maxVerbLen, true)
	checkText(fields, "preposition", t.Preposition, maxPrepositionLen, false)

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// HasPreposition reports whether the type carries a non-blank preposition.
func (t *ActionType) HasPreposition() bool {
	return strings.TrimSpace(t.Preposition) != ""
}

// checkText records a required/length violation for field into fields.
func checkText(fields map[string]string, field, value string, limit int, required bool) {
	switch {
	case required && strings.TrimSpace(value) == "":
		fields[field] = domain.MsgRequired
	case len(value) > limit:
		fields[field] = domain.MsgTooLong(limit, len(value))
	}
}

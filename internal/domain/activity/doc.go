// Package activity models the action log and what hangs off it: the action
// type catalog, follows, and notifications rendered from actions.
//
// Two message templates live here and are intentionally different:
//
//	ComposeActionMessage       "{user} has {verb} {object} {preposition} {target}"
//	ComposeNotificationMessage "{user} has {verb} you {preposition} {target}"
//
// The action template drops the target clause when there is no preposition or
// the target cannot be resolved. The notification template always includes
// both, even when empty.
package activity

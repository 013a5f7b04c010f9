package activity

import (
	"strings"
	"testing"
)

func TestComposeActionMessage(t *testing.T) {
	t.Parallel()

	assign := ActionType{Name: "assign", Verb: "assigned", Preposition: "to"}
	comment := ActionType{Name: "comment", Verb: "commented", Preposition: "on"}
	create := ActionType{Name: "create", Verb: "created"}

	tests := []struct {
		name  string
		typ   ActionType
		parts MessageParts
		want  string
	}{
		{
			name:  "preposition and resolved target",
			typ:   assign,
			parts: MessageParts{User: "alice", Object: "bob", Target: "Fix login"},
			want:  "alice has assigned bob to Fix login",
		},
		{
			name:  "preposition without target keeps preposition before object",
			typ:   comment,
			parts: MessageParts{User: "alice", Object: "Fix login"},
			want:  "alice has commented on Fix login",
		},
		{
			name:  "no preposition ignores target",
			typ:   create,
			parts: MessageParts{User: "alice", Object: "Website", Target: "Acme"},
			want:  "alice has created Website",
		},
		{
			name:  "no preposition no target",
			typ:   create,
			parts: MessageParts{User: "alice", Object: "Website"},
			want:  "alice has created Website",
		},
		{
			name:  "blank preposition treated as absent",
			typ:   ActionType{Name: "change", Verb: "changed", Preposition: "  "},
			parts: MessageParts{User: "alice", Object: "Website", Target: "Acme"},
			want:  "alice has changed Website",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ComposeActionMessage(tt.typ, tt.parts); got != tt.want {
				t.Errorf("ComposeActionMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestComposeNotificationMessage_AlwaysIncludesPrepositionAndTarget(t *testing.T) {
	t.Parallel()

	typ := ActionType{Name: "assign", Verb: "assigned", Preposition: "to"}

	got := ComposeNotificationMessage(typ, MessageParts{User: "alice", Object: "bob", Target: "Fix login"})
	if got != "alice has assigned you to Fix login" {
		t.Errorf("ComposeNotificationMessage() = %q", got)
	}

	// Without preposition or target the slots are still interpolated.
	got = ComposeNotificationMessage(ActionType{Name: "create", Verb: "created"}, MessageParts{User: "alice"})
	if got != "alice has created you  " {
		t.Errorf("ComposeNotificationMessage() = %q, want trailing empty slots", got)
	}
}

func TestTemplatesDiffer(t *testing.T) {
	t.Parallel()

	typ := ActionType{Name: "comment", Verb: "commented", Preposition: "on"}
	parts := MessageParts{User: "alice", Object: "Fix login", Target: "Website"}

	action := ComposeActionMessage(typ, parts)
	note := ComposeNotificationMessage(typ, parts)

	if action == note {
		t.Fatalf("templates produced the same message %q", action)
	}
	if !strings.Contains(note, " you ") {
		t.Errorf("notification message %q does not address the receiver", note)
	}
}

func TestActionType_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		typ     ActionType
		wantErr bool
	}{
		{name: "valid with preposition", typ: ActionType{Name: "comment", Verb: "commented", Preposition: "on"}},
		{name: "valid without preposition", typ: ActionType{Name: "create", Verb: "created"}},
		{name: "missing name", typ: ActionType{Verb: "created"}, wantErr: true},
		{name: "missing verb", typ: ActionType{Name: "create"}, wantErr: true},
		{name: "name too long", typ: ActionType{Name: strings.Repeat("n", 31), Verb: "v"}, wantErr: true},
		{name: "verb too long", typ: ActionType{Name: "n", Verb: strings.Repeat("v", 41)}, wantErr: true},
		{name: "preposition too long", typ: ActionType{Name: "n", Verb: "v", Preposition: strings.Repeat("p", 21)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.typ.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNotification_ValidateMessageLength(t *testing.T) {
	t.Parallel()

	n := &Notification{ReceiverID: "p1", Message: strings.Repeat("x", MaxMessageLen)}
	if err := n.Validate(); err != nil {
		t.Fatalf("Validate() at limit error = %v", err)
	}

	n.Message += "x"
	if err := n.Validate(); err == nil {
		t.Error("Validate() over limit = nil, want error")
	}
}

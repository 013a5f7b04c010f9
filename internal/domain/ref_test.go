package domain

import (
	"errors"
	"testing"
)

func TestKind_IsValid(t *testing.T) {
	t.Parallel()

	for _, k := range Kinds() {
		if !k.IsValid() {
			t.Errorf("%q.IsValid() = false, want true", k)
		}
	}
	for _, k := range []Kind{"", "comment", "Project"} {
		if k.IsValid() {
			t.Errorf("%q.IsValid() = true, want false", k)
		}
	}
}

func TestNewRef(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		kind    Kind
		id      string
		want    Ref
		wantErr bool
	}{
		{name: "both present", kind: KindProject, id: "42", want: Ref{Kind: KindProject, ID: "42"}},
		{name: "both absent", kind: "", id: "", want: Ref{}},
		{name: "id trimmed", kind: KindTask, id: "  7 ", want: Ref{Kind: KindTask, ID: "7"}},
		{name: "kind without id", kind: KindTask, id: "", wantErr: true},
		{name: "id without kind", kind: "", id: "7", wantErr: true},
		{name: "unknown kind", kind: "comment", id: "7", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NewRef(tt.kind, tt.id)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("NewRef() error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewRef() error = %v, want nil", err)
			}
			if got != tt.want {
				t.Errorf("NewRef() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseRef_RoundTrip(t *testing.T) {
	t.Parallel()

	ref := Ref{Kind: KindOrganization, ID: "3f6c"}
	got, err := ParseRef(ref.String())
	if err != nil {
		t.Fatalf("ParseRef(%q) error = %v", ref.String(), err)
	}
	if got != ref {
		t.Errorf("ParseRef(%q) = %+v, want %+v", ref.String(), got, ref)
	}
}

func TestParseRef_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "project", "project:", "widget:1"} {
		if _, err := ParseRef(in); !errors.Is(err, ErrValidation) {
			t.Errorf("ParseRef(%q) error = %v, want ErrValidation", in, err)
		}
	}
}

func TestRef_ZeroValue(t *testing.T) {
	t.Parallel()

	var r Ref
	if !r.IsZero() {
		t.Error("zero Ref IsZero() = false, want true")
	}
	if r.String() != "" {
		t.Errorf("zero Ref String() = %q, want empty", r.String())
	}
	if RefOf(nil) != r {
		t.Error("RefOf(nil) should be the zero Ref")
	}
}

func TestValidationError_MessageIsSorted(t *testing.T) {
	t.Parallel()

	err := &ValidationError{Fields: map[string]string{"verb": "is required", "name": "is required"}}
	want := "validation error: name: is required; verb: is required"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("errors.Is(err, ErrValidation) = false, want true")
	}
}

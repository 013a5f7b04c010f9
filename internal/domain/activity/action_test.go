package activity

import (
	"errors"
	"testing"

	"github.com/yigitunlu/heroject/internal/domain"
)

func TestAction_Validate(t *testing.T) {
	t.Parallel()

	task := domain.Ref{Kind: domain.KindTask, ID: "t1"}
	typ := ActionType{Name: "comment", Verb: "commented", Preposition: "on"}

	tests := []struct {
		name    string
		action  Action
		wantErr bool
	}{
		{name: "object only", action: Action{Object: task, Type: typ}},
		{name: "object and target", action: Action{Object: task, Target: domain.Ref{Kind: domain.KindProject, ID: "p1"}, Type: typ}},
		{name: "missing object", action: Action{Type: typ}, wantErr: true},
		{name: "half target", action: Action{Object: task, Target: domain.Ref{Kind: domain.KindProject}, Type: typ}, wantErr: true},
		{name: "missing type", action: Action{Object: task}, wantErr: true},
		{name: "ip too long", action: Action{Object: task, Type: typ, IPAddress: "2001:0db8:85a3:0000:0000"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.action.Validate()
			if tt.wantErr && !errors.Is(err, domain.ErrValidation) {
				t.Errorf("Validate() error = %v, want ErrValidation", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
		})
	}
}

func TestAction_FollowedRef(t *testing.T) {
	t.Parallel()

	task := domain.Ref{Kind: domain.KindTask, ID: "t1"}
	project := domain.Ref{Kind: domain.KindProject, ID: "p1"}

	if got := (&Action{Object: task}).FollowedRef(); got != task {
		t.Errorf("FollowedRef() without target = %v, want %v", got, task)
	}
	if got := (&Action{Object: task, Target: project}).FollowedRef(); got != project {
		t.Errorf("FollowedRef() with target = %v, want %v", got, project)
	}
}

func TestAction_Involves(t *testing.T) {
	t.Parallel()

	task := domain.Ref{Kind: domain.KindTask, ID: "t1"}
	project := domain.Ref{Kind: domain.KindProject, ID: "p1"}
	a := &Action{Object: task, Target: project}

	if !a.Involves(task) || !a.Involves(project) {
		t.Error("Involves() = false for object or target")
	}
	if a.Involves(domain.Ref{}) {
		t.Error("Involves(zero) = true, want false")
	}
	if (&Action{Object: task}).Involves(domain.Ref{}) {
		t.Error("Involves(zero) on targetless action = true, want false")
	}
}

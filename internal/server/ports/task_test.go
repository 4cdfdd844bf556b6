package ports

import "testing"

func TestTaskStateTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    TaskState
		to      TaskState
		allowed bool
	}{
		{"pending to progress", TaskStatePending, TaskStateProgress, true},
		{"pending to failure", TaskStatePending, TaskStateFailure, true},
		{"pending to success", TaskStatePending, TaskStateSuccess, false},
		{"progress to progress", TaskStateProgress, TaskStateProgress, true},
		{"progress to success", TaskStateProgress, TaskStateSuccess, true},
		{"progress to failure", TaskStateProgress, TaskStateFailure, true},
		{"success is terminal", TaskStateSuccess, TaskStateProgress, false},
		{"success to failure", TaskStateSuccess, TaskStateFailure, false},
		{"failure is terminal", TaskStateFailure, TaskStateProgress, false},
		{"failure to success", TaskStateFailure, TaskStateSuccess, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransition(tt.to); got != tt.allowed {
				t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.allowed)
			}
		})
	}
}

func TestTaskStateTerminal(t *testing.T) {
	if TaskStatePending.Terminal() || TaskStateProgress.Terminal() {
		t.Error("PENDING and PROGRESS must not be terminal")
	}
	if !TaskStateSuccess.Terminal() || !TaskStateFailure.Terminal() {
		t.Error("SUCCESS and FAILURE must be terminal")
	}
}

func TestPreferencesValidate(t *testing.T) {
	valid := Preferences{Location: "Remote", CompanySize: "Any", RoleType: "Backend Engineer"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid preferences rejected: %v", err)
	}

	missingLocation := Preferences{Location: "", RoleType: "Backend Engineer"}
	if err := missingLocation.Validate(); err == nil {
		t.Error("expected error for empty location")
	}

	blankLocation := Preferences{Location: "   ", RoleType: "Backend Engineer"}
	if err := blankLocation.Validate(); err == nil {
		t.Error("expected error for blank location")
	}

	missingRole := Preferences{Location: "Remote", RoleType: ""}
	if err := missingRole.Validate(); err == nil {
		t.Error("expected error for empty role_type")
	}
}

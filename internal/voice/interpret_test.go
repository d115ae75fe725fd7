package voice

import "testing"

func TestInterpret_StripsTriggerAndCapitalizes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"add task buy milk", "Buy milk"},
		{"new task call the dentist", "Call the dentist"},
		{"add apples", "Apples"},
		{"create weekly review", "Weekly review"},
		{"ADD TASK water the plants", "Water the plants"},
		{"buy bread", "Buy bread"},
	}
	for _, tt := range tests {
		got, ok := Interpret(tt.in)
		if !ok {
			t.Errorf("Interpret(%q) not ok", tt.in)
			continue
		}
		if got != tt.want {
			t.Errorf("Interpret(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInterpret_StripsOnlyOneTrigger(t *testing.T) {
	got, ok := Interpret("add task add milk to the list")
	if !ok {
		t.Fatal("expected actionable text")
	}
	if got != "Add milk to the list" {
		t.Errorf("got %q, want %q", got, "Add milk to the list")
	}
}

func TestInterpret_LongerTriggerWins(t *testing.T) {
	// "add task" must be matched before the bare "add" prefix.
	got, _ := Interpret("add task task one")
	if got != "Task one" {
		t.Errorf("got %q, want %q", got, "Task one")
	}
}

func TestInterpret_BareTriggerNotActionable(t *testing.T) {
	for _, in := range []string{"create", "add", "add task", "  new task  ", "", "   "} {
		if got, ok := Interpret(in); ok {
			t.Errorf("Interpret(%q) = %q, want not actionable", in, got)
		}
	}
}

func TestInterpret_UnicodeFirstRune(t *testing.T) {
	got, ok := Interpret("add über alles")
	if !ok || got != "Über alles" {
		t.Errorf("got %q (ok=%v), want %q", got, ok, "Über alles")
	}
}

package philosopher

import (
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	defaults := Defaults()
	if len(defaults) != 10 {
		t.Fatalf("expected 10 builtin philosophers, got %d", len(defaults))
	}

	seen := make(map[Type]bool)
	for _, p := range defaults {
		if p.ID == "" || p.Name == "" {
			t.Errorf("philosopher with empty identity: %+v", p)
		}
		if seen[p.ID] {
			t.Errorf("duplicate philosopher id %q", p.ID)
		}
		seen[p.ID] = true
		if len(p.CoreBeliefs) == 0 {
			t.Errorf("%s has no core beliefs", p.ID)
		}
		if p.Style == "" {
			t.Errorf("%s has no conversation style", p.ID)
		}
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		name  string
		ptype Type
		found bool
	}{
		{"socrates exists", Socrates, true},
		{"marcus aurelius exists", MarcusAurelius, true},
		{"unknown type", Type("hegel"), false},
		{"empty type", Type(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Get(tt.ptype)
			if (p != nil) != tt.found {
				t.Errorf("Get(%q) found=%v, want %v", tt.ptype, p != nil, tt.found)
			}
		})
	}
}

func TestRegistryIsShared(t *testing.T) {
	// The registry is built once at package load; lookups return
	// pointers into it rather than per-call copies.
	if Get(Socrates) != Get(Socrates) {
		t.Error("Get returns a fresh copy on every call")
	}
	if FromName("Socrates") != Get(Socrates) {
		t.Error("FromName and Get disagree on the stored profile")
	}
}

func TestFromName(t *testing.T) {
	p := FromName("Immanuel Kant")
	if p == nil || p.ID != Kant {
		t.Fatalf("FromName(Immanuel Kant) = %v, want kant profile", p)
	}
	if FromName("Hegel") != nil {
		t.Error("FromName(Hegel) should return nil")
	}
}

func TestSystemPrompt(t *testing.T) {
	p := Get(Nietzsche)
	prompt := p.SystemPrompt()

	for _, want := range []string{
		"You are Friedrich Nietzsche",
		"CORE BELIEFS:",
		"- God is dead, and we have killed him",
		"Will to Power",
		"Thus Spoke Zarathustra",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestWelcomeMessage(t *testing.T) {
	p := Get(Socrates)
	if !strings.Contains(p.WelcomeMessage(), "Socrates of Athens") {
		t.Errorf("unexpected welcome message: %q", p.WelcomeMessage())
	}

	anon := &Profile{Name: "Hypatia"}
	if !strings.Contains(anon.WelcomeMessage(), "Hypatia") {
		t.Error("generic welcome should include the philosopher name")
	}
}

func TestValid(t *testing.T) {
	for _, typ := range List() {
		if !Valid(typ) {
			t.Errorf("listed type %q reported invalid", typ)
		}
	}
	if Valid(Type("diogenes")) {
		t.Error("diogenes should not be a builtin philosopher")
	}
}

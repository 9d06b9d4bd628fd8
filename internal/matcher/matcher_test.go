package matcher

import (
	"context"
	"testing"
)

func newTestMatcher(t *testing.T, calls *[]string) *Matcher {
	t.Helper()

	action := func(name string) Action {
		return func(ctx context.Context) error {
			*calls = append(*calls, name)
			return nil
		}
	}

	m, err := New(Options{
		Commands: map[string]Action{
			"O-CMD.SAVE":       action("save"),
			"O-CMD.NEW":        action("new"),
			"O-CMD.PAGER-NEXT": nil, // capability absent
		},
		ReservedPrefixes: []string{"O-CMD", "O-BTN", ""},
		ReservedPatterns: []string{"LOT-*-X"},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m
}

func TestClassify(t *testing.T) {
	var calls []string
	m := newTestMatcher(t, &calls)

	tests := []struct {
		token string
		want  Kind
	}{
		{"O-CMD.SAVE", KindCommand},
		{"O-CMD.NEW", KindCommand},
		{"O-CMD.PAGER-NEXT", KindReserved}, // unbound keyword falls through to prefix
		{"O-CMD.UNKNOWN", KindReserved},
		{"O-BTN.validate", KindReserved},
		{"LOT-0042-X", KindReserved},
		{"LOT-0042-Y", KindValue},
		{"8412345678900", KindValue},
		{"", KindValue},
		{"o-cmd.save", KindValue}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got := m.Classify(tt.token)
			if got.Kind != tt.want {
				t.Errorf("Classify(%q).Kind = %v, want %v", tt.token, got.Kind, tt.want)
			}
			if got.Token != tt.token {
				t.Errorf("Classify(%q).Token = %q", tt.token, got.Token)
			}
			if (got.Action != nil) != (tt.want == KindCommand) {
				t.Errorf("Classify(%q).Action presence mismatch", tt.token)
			}
		})
	}

	if len(calls) != 0 {
		t.Errorf("Classify must not invoke actions, got calls %v", calls)
	}
}

func TestClassify_CommandActionBound(t *testing.T) {
	var calls []string
	m := newTestMatcher(t, &calls)

	match := m.Classify("O-CMD.SAVE")
	if err := match.Action(context.Background()); err != nil {
		t.Fatalf("action error = %v", err)
	}
	if len(calls) != 1 || calls[0] != "save" {
		t.Errorf("calls = %v, want [save]", calls)
	}
}

func TestNew_InvalidPattern(t *testing.T) {
	_, err := New(Options{ReservedPatterns: []string{"[unterminated"}})
	if err == nil {
		t.Fatal("expected error for invalid glob pattern")
	}
}

func TestKeywords(t *testing.T) {
	var calls []string
	m := newTestMatcher(t, &calls)

	got := m.Keywords()
	want := []string{"O-CMD.NEW", "O-CMD.SAVE"}
	if len(got) != len(want) {
		t.Fatalf("Keywords() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keywords()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSuggest(t *testing.T) {
	var calls []string
	m := newTestMatcher(t, &calls)

	tests := []struct {
		token  string
		want   string
		wantOK bool
	}{
		{"O-CMD.SAV", "O-CMD.SAVE", true},
		{"O-CMD.NEX", "O-CMD.NEW", true},
		{"O-CMD.SAVE", "", false},
		{"O-BTN.validate", "", false},
	}
	for _, tt := range tests {
		got, ok := m.Suggest(tt.token)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("Suggest(%q) = (%q, %v), want (%q, %v)", tt.token, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestKind_String(t *testing.T) {
	if KindCommand.String() != "command" || KindReserved.String() != "reserved" ||
		KindValue.String() != "value" || Kind(9).String() != "unknown" {
		t.Error("unexpected Kind.String() output")
	}
}

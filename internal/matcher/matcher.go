// Package matcher classifies raw scan tokens.
//
// A token is either a command keyword bound to an editor action, a token
// carrying a reserved prefix that another subsystem consumes, or a plain
// value destined for the barcode field. A Matcher is immutable and safe for
// concurrent use; reconfiguration builds a new one.
package matcher

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/gobwas/glob"
)

// Kind is the classification of a token.
type Kind int

const (
	// KindValue is an arbitrary token for the barcode field.
	KindValue Kind = iota
	// KindCommand is a token bound to an editor action.
	KindCommand
	// KindReserved is a token handled upstream and dropped here.
	KindReserved
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindCommand:
		return "command"
	case KindReserved:
		return "reserved"
	default:
		return "unknown"
	}
}

// Action is an editor action bound to a command keyword.
type Action func(ctx context.Context) error

// Match is the result of classifying one token.
type Match struct {
	Kind  Kind
	Token string
	// Keyword and Action are set for KindCommand.
	Keyword string
	Action  Action
}

// Matcher holds the fixed keyword and reserved prefix sets.
type Matcher struct {
	commands map[string]Action
	prefixes []string
	patterns []glob.Glob
}

// Options configures a Matcher.
type Options struct {
	// Commands maps keyword to action. Keywords with a nil action are
	// ignored.
	Commands map[string]Action
	// ReservedPrefixes are plain token prefixes.
	ReservedPrefixes []string
	// ReservedPatterns are glob patterns (gobwas/glob syntax) matched
	// against the whole token.
	ReservedPatterns []string
}

// New builds a Matcher. It fails when a reserved pattern does not compile.
func New(opts Options) (*Matcher, error) {
	m := &Matcher{commands: make(map[string]Action, len(opts.Commands))}
	for kw, action := range opts.Commands {
		if kw == "" || action == nil {
			continue
		}
		m.commands[kw] = action
	}
	for _, p := range opts.ReservedPrefixes {
		if p != "" {
			m.prefixes = append(m.prefixes, p)
		}
	}
	for _, pattern := range opts.ReservedPatterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid reserved pattern %q: %w", pattern, err)
		}
		m.patterns = append(m.patterns, g)
	}
	return m, nil
}

// Classify returns the classification of token. It has no side effects.
func (m *Matcher) Classify(token string) Match {
	if action, ok := m.commands[token]; ok {
		return Match{Kind: KindCommand, Token: token, Keyword: token, Action: action}
	}
	if m.isReserved(token) {
		return Match{Kind: KindReserved, Token: token}
	}
	return Match{Kind: KindValue, Token: token}
}

func (m *Matcher) isReserved(token string) bool {
	for _, p := range m.prefixes {
		if strings.HasPrefix(token, p) {
			return true
		}
	}
	for _, g := range m.patterns {
		if g.Match(token) {
			return true
		}
	}
	return false
}

// Keywords returns the bound keywords in sorted order.
func (m *Matcher) Keywords() []string {
	kws := make([]string, 0, len(m.commands))
	for kw := range m.commands {
		kws = append(kws, kw)
	}
	sort.Strings(kws)
	return kws
}

// maxSuggestDistance bounds how far a misread keyword may be from a bound one.
const maxSuggestDistance = 2

// Suggest returns the bound keyword closest to token when it is within a
// small edit distance, flagging likely misreads of command barcodes.
func (m *Matcher) Suggest(token string) (string, bool) {
	best, bestDist := "", maxSuggestDistance+1
	for _, kw := range m.Keywords() {
		d := levenshtein.ComputeDistance(strings.ToUpper(token), strings.ToUpper(kw))
		if d < bestDist {
			best, bestDist = kw, d
		}
	}
	if best == "" || best == token {
		return "", false
	}
	return best, true
}

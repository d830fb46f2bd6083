package gamelog

import (
	"fmt"
	"regexp"

	"github.com/ServerWatch/conn-monitor/internal/domain"
)

// Capture group names every matcher expression must define
const (
	groupAddr    = "addr"
	groupSession = "session"
	groupServer  = "server"
	groupRegion  = "region"
)

// Matcher is one pattern variant for a connection-event line. Matchers are
// independent functions tried in a fixed priority order; the first success
// short-circuits the rest.
type Matcher struct {
	Name string
	re   *regexp.Regexp
}

// NewMatcher compiles a pattern. The expression must define the named
// capture groups addr, session, server and region.
func NewMatcher(name, expr string) (Matcher, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Matcher{}, fmt.Errorf("pattern %q: %w", name, err)
	}

	required := map[string]bool{
		groupAddr:    false,
		groupSession: false,
		groupServer:  false,
		groupRegion:  false,
	}
	for _, g := range re.SubexpNames() {
		if _, ok := required[g]; ok {
			required[g] = true
		}
	}
	for g, present := range required {
		if !present {
			return Matcher{}, fmt.Errorf("pattern %q: missing capture group %q", name, g)
		}
	}

	return Matcher{Name: name, re: re}, nil
}

// Match applies the pattern. Extracted fields are the verbatim bracketed
// substrings; no content validation is done.
func (m Matcher) Match(line string) (*domain.ConnectionRecord, bool) {
	sub := m.re.FindStringSubmatch(line)
	if sub == nil {
		return nil, false
	}

	fields := make(map[string]string, 4)
	for i, g := range m.re.SubexpNames() {
		if i == 0 || g == "" {
			continue
		}
		fields[g] = sub[i]
	}

	return &domain.ConnectionRecord{
		Region:        fields[groupRegion],
		ServerID:      fields[groupServer],
		SessionID:     fields[groupSession],
		ServerAddress: fields[groupAddr],
	}, true
}

// DefaultMatchers returns the built-in pattern list in priority order.
// The variants exist to tolerate whitespace and bracket-spacing drift in
// the upstream log format across game builds.
func DefaultMatchers() []Matcher {
	exprs := []struct {
		name string
		expr string
	}{
		{
			name: "strict",
			expr: `addr \[(?P<addr>[^\]]+)\] sessionId \[(?P<session>[^\]]+)\] serverId \[(?P<server>[^\]]+)\] region \[(?P<region>[^\]]+)\]`,
		},
		{
			name: "loose_spacing",
			expr: `addr\s*\[\s*(?P<addr>[^\]]+?)\s*\]\s*sessionId\s*\[\s*(?P<session>[^\]]+?)\s*\]\s*serverId\s*\[\s*(?P<server>[^\]]+?)\s*\]\s*region\s*\[\s*(?P<region>[^\]]+?)\s*\]`,
		},
	}

	matchers := make([]Matcher, 0, len(exprs))
	for _, e := range exprs {
		m, err := NewMatcher(e.name, e.expr)
		if err != nil {
			// Built-in patterns are compile-time constants
			panic(err)
		}
		matchers = append(matchers, m)
	}
	return matchers
}

// Extractor parses a located marker line into a ConnectionRecord
type Extractor struct {
	matchers []Matcher
}

// NewExtractor creates an extractor. With no matchers given, the built-in
// list is used.
func NewExtractor(matchers ...Matcher) *Extractor {
	if len(matchers) == 0 {
		matchers = DefaultMatchers()
	}
	return &Extractor{matchers: matchers}
}

// Parse tries each matcher in priority order; the first success wins.
// Returns false when no matcher recognizes the line. A record is either
// fully populated or not produced at all.
func (e *Extractor) Parse(line string) (*domain.ConnectionRecord, bool) {
	for _, m := range e.matchers {
		if rec, ok := m.Match(line); ok {
			return rec, true
		}
	}
	return nil, false
}

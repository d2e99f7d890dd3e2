package trace

import (
	"fmt"
	"strings"
)

// Level is the tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // nothing streamed, ring dumped on exit
	LevelPhase        // host and program lifecycle
	LevelDetail       // plus native calls
	LevelDebug        // everything
)

var levels = [...]struct {
	name    string
	deepest Scope
}{
	LevelOff:    {"off", 0},
	LevelError:  {"error", 0},
	LevelPhase:  {"phase", ScopeProgram},
	LevelDetail: {"detail", ScopeCall},
	LevelDebug:  {"debug", ScopeFrame},
}

func (l Level) String() string {
	if int(l) < len(levels) {
		return levels[l].name
	}
	return "unknown"
}

// ParseLevel accepts a level name in any case.
func ParseLevel(s string) (Level, error) {
	for l, info := range levels {
		if strings.EqualFold(s, info.name) {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level %q (want off, error, phase, detail or debug)", s)
}

// Allows reports whether events of scope pass this level.
func (l Level) Allows(scope Scope) bool {
	if int(l) >= len(levels) {
		return false
	}
	return scope != 0 && scope <= levels[l].deepest
}

// admits is the filter every sink applies; heartbeats bypass scopes.
func admits(l Level, ev *Event) bool {
	if ev.Kind == KindHeartbeat {
		return l > LevelOff
	}
	return l.Allows(ev.Scope)
}

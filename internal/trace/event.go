package trace

import "time"

// Kind is the shape of an event.
type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
	KindPoint
	KindHeartbeat
)

var kindNames = [...]string{"", "begin", "end", "point", "heartbeat"}

func (k Kind) String() string {
	if int(k) < len(kindNames) && k != 0 {
		return kindNames[k]
	}
	return "unknown"
}

// Scope says which layer of the runtime produced an event. Deeper
// layers have larger values and are filtered first.
type Scope uint8

const (
	ScopeHost    Scope = iota + 1 // cli commands, executor ticks, task state
	ScopeProgram                  // compile, start, finish, save, restore
	ScopeCall                     // native calls
	ScopeFrame                    // frame allocation and resume
)

var scopeNames = [...]string{"", "host", "program", "call", "frame"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && s != 0 {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one trace record.
type Event struct {
	At     time.Time
	Seq    uint64
	Kind   Kind
	Scope  Scope
	Span   uint64 // 0 for points and heartbeats
	Parent uint64
	Owner  string // program owner, empty for host events
	Tick   uint64 // executor tick, 0 outside a run
	Name   string
	Detail string
	Attrs  map[string]string
}

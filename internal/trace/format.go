package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Format is the encoding of written events.
type Format uint8

const (
	FormatAuto   Format = iota // by output file extension
	FormatText
	FormatNDJSON
)

// ParseFormat accepts auto, text, ndjson or json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format %q (want auto, text or ndjson)", s)
}

// AppendEvent appends one encoded line to dst.
func AppendEvent(dst []byte, ev *Event, f Format) []byte {
	if f == FormatNDJSON {
		return appendJSON(dst, ev)
	}
	return appendText(dst, ev)
}

type jsonEvent struct {
	At     string            `json:"at"`
	Seq    uint64            `json:"seq"`
	Kind   string            `json:"kind"`
	Scope  string            `json:"scope,omitempty"`
	Span   uint64            `json:"span,omitempty"`
	Parent uint64            `json:"parent,omitempty"`
	Owner  string            `json:"owner,omitempty"`
	Tick   uint64            `json:"tick,omitempty"`
	Name   string            `json:"name"`
	Detail string            `json:"detail,omitempty"`
	Attrs  map[string]string `json:"attrs,omitempty"`
}

func appendJSON(dst []byte, ev *Event) []byte {
	j := jsonEvent{
		At:     ev.At.UTC().Format(time.RFC3339Nano),
		Seq:    ev.Seq,
		Kind:   ev.Kind.String(),
		Span:   ev.Span,
		Parent: ev.Parent,
		Owner:  ev.Owner,
		Tick:   ev.Tick,
		Name:   ev.Name,
		Detail: ev.Detail,
		Attrs:  ev.Attrs,
	}
	if ev.Kind != KindHeartbeat {
		j.Scope = ev.Scope.String()
	}
	data, err := json.Marshal(j)
	if err != nil {
		return dst
	}
	return append(append(dst, data...), '\n')
}

var marks = [...]string{KindBegin: "> ", KindEnd: "< ", KindPoint: "* ", KindHeartbeat: "~ "}

// appendText writes "t0042 bot1 > name (detail) k=v".
func appendText(dst []byte, ev *Event) []byte {
	if ev.Tick > 0 {
		dst = append(dst, 't')
		dst = appendPadded(dst, ev.Tick, 4)
	} else {
		dst = append(dst, "t----"...)
	}
	dst = append(dst, ' ')
	if ev.Parent != 0 {
		dst = append(dst, "  "...)
	}
	if ev.Owner != "" {
		dst = append(dst, ev.Owner...)
		dst = append(dst, ' ')
	}
	if int(ev.Kind) < len(marks) {
		dst = append(dst, marks[ev.Kind]...)
	}
	dst = append(dst, ev.Name...)
	if ev.Detail != "" {
		dst = append(dst, " ("...)
		dst = append(dst, ev.Detail...)
		dst = append(dst, ')')
	}
	for _, k := range slices.Sorted(maps.Keys(ev.Attrs)) {
		dst = append(dst, ' ')
		dst = append(dst, k...)
		dst = append(dst, '=')
		dst = append(dst, ev.Attrs[k]...)
	}
	return append(dst, '\n')
}

func appendPadded(dst []byte, n uint64, width int) []byte {
	s := strconv.FormatUint(n, 10)
	for i := len(s); i < width; i++ {
		dst = append(dst, '0')
	}
	return append(dst, s...)
}

package trace

import (
	"errors"
	"io"
)

type tee struct {
	level   Level
	targets []Tracer
}

// Tee sends every event to each of targets.
func Tee(level Level, targets ...Tracer) Tracer {
	return &tee{level: level, targets: targets}
}

func (t *tee) Emit(ev *Event) {
	if ev.Seq == 0 {
		ev.Seq = seq.Add(1)
	}
	for _, x := range t.targets {
		x.Emit(ev)
	}
}

func (t *tee) Flush() error {
	var errs []error
	for _, x := range t.targets {
		errs = append(errs, x.Flush())
	}
	return errors.Join(errs...)
}

func (t *tee) Close() error {
	var errs []error
	for _, x := range t.targets {
		errs = append(errs, x.Close())
	}
	return errors.Join(errs...)
}

func (t *tee) Level() Level { return t.level }

// Dump forwards to the first target that keeps events.
func (t *tee) Dump(w io.Writer, f Format) error {
	for _, x := range t.targets {
		if d, ok := x.(Dumper); ok {
			return d.Dump(w, f)
		}
	}
	return nil
}

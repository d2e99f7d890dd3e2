package sched

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
)

// Snapshot saves the paused execution tree of a running task.
func (e *Executor) Snapshot(id uuid.UUID) ([]byte, error) {
	t := e.tasks[id]
	if t == nil {
		return nil, ErrUnknownTask
	}
	var buf bytes.Buffer
	if err := t.Program.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Resume restores a task from Snapshot data and marks it running. A
// failed restore fails only this task.
func (e *Executor) Resume(id uuid.UUID, data []byte) error {
	t := e.tasks[id]
	if t == nil {
		return ErrUnknownTask
	}
	if err := t.Program.Restore(bytes.NewReader(data)); err != nil {
		t.Status, t.Err = TaskFailed, err
		return fmt.Errorf("resume %s: %w", t.Name, err)
	}
	t.Status, t.Err = TaskRunning, nil
	return nil
}

package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"cbot/internal/ui"
)

// runWithUI ticks in the background and renders every tick. Messages are
// printed once the view closes.
func runWithUI(r *runner, title string) error {
	events := make(chan ui.Event, 256)
	done := make(chan struct{})
	stop := make(chan struct{})

	go func() {
		defer close(done)
		defer close(events)
		events <- ui.Collect(0, r.ex)
		for tick := 1; tick <= r.cfg.Run.Ticks && r.ex.Running() > 0; tick++ {
			select {
			case <-stop:
				return
			default:
			}
			r.tick(nil)
			events <- ui.Collect(tick, r.ex)
		}
	}()

	model := ui.NewRunModel(title, r.cfg.Run.Ticks, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	close(stop)
	// события больше никто не читает
	go func() {
		for range events {
		}
	}()
	<-done
	r.flushMessages(r.cmd.OutOrStdout())
	return uiErr
}

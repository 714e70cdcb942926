//go:build !windows

package main

import (
	"os"
	"os/signal"
	"syscall"

	"swing.klederson.com/internal/app"
)

// notifyToggle sends a ToggleMsg on every SIGUSR1, the headless stand-in
// for tapping the face.
func notifyToggle(s app.Sender) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGUSR1)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ch:
				s.Send(app.ToggleMsg{})
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}

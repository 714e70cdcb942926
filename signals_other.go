//go:build windows

package main

import "swing.klederson.com/internal/app"

func notifyToggle(app.Sender) (stop func()) {
	return func() {}
}

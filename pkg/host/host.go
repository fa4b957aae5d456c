// Package host describes what the platform hosting the screen provides.
package host

import (
	"context"
	"time"
)

type User struct {
	ID        int64
	FirstName string
	UserName  string
	PhotoURL  string
}

// DisplayName falls back to "Trader" when the platform gave no first name.
func (u User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return "Trader"
}

// UI is the set of opaque platform primitives the components call.
type UI interface {
	Alert(text string)
	ShowProgress()
	HideProgress()
	Haptic()
	Copy(text string) error
	EnableClosingConfirmation()
}

// Scheduler runs work off the UI context and brings results back to it.
// done and fn always execute on the UI context.
type Scheduler interface {
	Go(work func(ctx context.Context), done func())
	After(d time.Duration, fn func())
}

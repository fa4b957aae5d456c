// Package hosttest provides an in-memory host for component tests.
package hosttest

import (
	"context"
	"time"
)

// UI records every primitive call.
type UI struct {
	Alerts        []string
	Copied        []string
	Progress      bool
	ProgressShown int
	Haptics       int
	Confirmation  bool
	CopyErr       error
}

func (u *UI) Alert(text string) { u.Alerts = append(u.Alerts, text) }

func (u *UI) ShowProgress() {
	u.Progress = true
	u.ProgressShown++
}

func (u *UI) HideProgress() { u.Progress = false }

func (u *UI) Haptic() { u.Haptics++ }

func (u *UI) Copy(text string) error {
	if u.CopyErr != nil {
		return u.CopyErr
	}
	u.Copied = append(u.Copied, text)
	return nil
}

func (u *UI) EnableClosingConfirmation() { u.Confirmation = true }

// LastAlert returns the most recent alert or "".
func (u *UI) LastAlert() string {
	if len(u.Alerts) == 0 {
		return ""
	}
	return u.Alerts[len(u.Alerts)-1]
}

type Timer struct {
	Delay time.Duration
	Fn    func()
}

// Scheduler runs work immediately but holds completions and timers until the
// test releases them, so in-flight states can be observed.
type Scheduler struct {
	Pending []func()
	Timers  []Timer
}

func (s *Scheduler) Go(work func(ctx context.Context), done func()) {
	work(context.Background())
	s.Pending = append(s.Pending, done)
}

func (s *Scheduler) After(d time.Duration, fn func()) {
	s.Timers = append(s.Timers, Timer{Delay: d, Fn: fn})
}

// Complete runs all held completions in issue order, including ones they schedule.
func (s *Scheduler) Complete() {
	for len(s.Pending) > 0 {
		done := s.Pending[0]
		s.Pending = s.Pending[1:]
		done()
	}
}

// CompleteAt runs the held completion i out of order.
func (s *Scheduler) CompleteAt(i int) {
	done := s.Pending[i]
	s.Pending = append(s.Pending[:i], s.Pending[i+1:]...)
	done()
}

// Fire runs all timers due so far.
func (s *Scheduler) Fire() {
	timers := s.Timers
	s.Timers = nil
	for _, timer := range timers {
		timer.Fn()
	}
}

// Package reminder nudges the learner when vocabulary comes due. A gocron
// job checks the due queue hourly and hands the count to a Notifier;
// reminders only fire inside a configurable waking-hours window.
package reminder

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/Stephen-Garner/UniLexApp2-sub001/internal/storage"
)

// Default reminder window, overridable per check via REMINDER_START_HOUR
// and REMINDER_END_HOUR.
const (
	DefaultStartHour = 8
	DefaultEndHour   = 22
)

// Notifier delivers a due-words reminder to the learner.
type Notifier interface {
	SendDueReminder(count int) error
}

// Config tunes the reminder loop.
type Config struct {
	// StartHour and EndHour bound the hours (inclusive) a reminder may
	// fire, in the local clock of the time source.
	StartHour int
	EndHour   int
	// MaxWordsPerReminder caps the count reported to the notifier so a
	// long backlog doesn't read as a wall. 0 means no cap.
	MaxWordsPerReminder int
	// Now supplies the clock, for tests. Nil means time.Now.
	Now func() time.Time
}

// DefaultConfig returns the stock reminder settings.
func DefaultConfig() Config {
	return Config{
		StartHour:           DefaultStartHour,
		EndHour:             DefaultEndHour,
		MaxWordsPerReminder: 20,
	}
}

// Scheduler owns the periodic due-words check.
type Scheduler struct {
	scheduler *gocron.Scheduler
	lister    storage.DueLister
	notifier  Notifier
	cfg       Config
	now       func() time.Time
}

// New builds a reminder scheduler over the given due lister and notifier.
func New(lister storage.DueLister, notifier Notifier, cfg Config) *Scheduler {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		lister:    lister,
		notifier:  notifier,
		cfg:       cfg,
		now:       now,
	}
}

// Start schedules the hourly check and runs it in the background.
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Hour().Do(s.checkAndNotify)
	s.scheduler.StartAsync()
}

// Stop terminates the scheduled checks.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// checkAndNotify is the gocron callback: run one check and log the outcome.
func (s *Scheduler) checkAndNotify() {
	count, err := s.check(s.now())
	if err != nil {
		log.Printf("Error sending due reminder: %v", err)
		return
	}
	if count > 0 {
		log.Printf("Sent reminder for %d due words", count)
	}
}

// check runs one reminder pass for the given time: outside the window or
// with nothing due it does nothing, otherwise it notifies with the capped
// due count. Returns the count actually reported.
func (s *Scheduler) check(now time.Time) (int, error) {
	start, end := s.window()
	if hour := now.Hour(); hour < start || hour > end {
		return 0, nil
	}
	return s.notifyDue(now)
}

// RunManualCheck forces a reminder pass right now, ignoring the window.
func (s *Scheduler) RunManualCheck() (int, error) {
	return s.notifyDue(s.now())
}

func (s *Scheduler) notifyDue(now time.Time) (int, error) {
	due, err := s.lister.ListDue(now, -1)
	if err != nil {
		return 0, fmt.Errorf("failed to list due words: %v", err)
	}
	if len(due) == 0 {
		return 0, nil
	}

	count := len(due)
	if s.cfg.MaxWordsPerReminder > 0 && count > s.cfg.MaxWordsPerReminder {
		count = s.cfg.MaxWordsPerReminder
	}

	if err := s.notifier.SendDueReminder(count); err != nil {
		return 0, fmt.Errorf("failed to send reminder: %v", err)
	}
	return count, nil
}

// window resolves the active reminder hours: environment overrides win
// over the configured defaults, so the window can be adjusted without a
// restart.
func (s *Scheduler) window() (int, int) {
	start, end := s.cfg.StartHour, s.cfg.EndHour

	if v := os.Getenv("REMINDER_START_HOUR"); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h <= 23 {
			start = h
		}
	}
	if v := os.Getenv("REMINDER_END_HOUR"); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h <= 23 {
			end = h
		}
	}
	return start, end
}

// LogNotifier writes reminders to the process log. It is the default
// notifier for CLI runs, where there is no push channel.
type LogNotifier struct{}

// SendDueReminder implements Notifier.
func (LogNotifier) SendDueReminder(count int) error {
	log.Printf("You have %d words due for review", count)
	return nil
}

package tack

import (
	"time"

	"github.com/charmbracelet/log"
)

// Autosaver periodically persists the board through its Store. It runs
// cooperatively — the board's Step drives it, there is no background
// goroutine — and follows the engine's failure policy: retry with backoff,
// then disable itself for the session and surface a terminal error instead
// of looping forever.
type Autosaver struct {
	interval   time.Duration
	backoff    time.Duration
	maxRetries int
	logger     *log.Logger

	nextAt   time.Time
	retries  int
	busy     bool
	disabled bool
	lastErr  error
}

func newAutosaver(cfg Config, logger *log.Logger) *Autosaver {
	return &Autosaver{
		interval:   cfg.AutosaveInterval.Duration,
		backoff:    cfg.AutosaveBackoff.Duration,
		maxRetries: cfg.AutosaveMaxRetries,
		logger:     logger,
	}
}

// tick runs one scheduling check. export is called lazily so the document is
// only built when a save actually fires. The busy flag keeps a save from
// re-entering itself should the store call back into the board.
func (a *Autosaver) tick(now time.Time, store Store, export func() Document) {
	if a.disabled || a.busy {
		return
	}
	if a.nextAt.IsZero() {
		a.nextAt = now.Add(a.interval)
		return
	}
	if now.Before(a.nextAt) {
		return
	}

	a.busy = true
	err := store.Save(export())
	a.busy = false

	if err == nil {
		if a.retries > 0 {
			a.logger.Info("autosave recovered", "after_retries", a.retries)
		}
		a.retries = 0
		a.lastErr = nil
		a.nextAt = now.Add(a.interval)
		return
	}

	a.retries++
	a.lastErr = err
	if a.retries >= a.maxRetries {
		a.disabled = true
		a.logger.Error("autosave disabled", "retries", a.retries, "err", err)
		return
	}

	// Exponential backoff: base * 2^(retries-1).
	delay := a.backoff << (a.retries - 1)
	a.nextAt = now.Add(delay)
	a.logger.Warn("autosave failed, will retry", "attempt", a.retries, "retry_in", delay, "err", err)
}

// terminalErr returns the last error once autosave has disabled itself,
// wrapped so callers can match ErrAutosaveDisabled. Nil while healthy.
func (a *Autosaver) terminalErr() error {
	if !a.disabled {
		return nil
	}
	if a.lastErr == nil {
		return ErrAutosaveDisabled
	}
	return &autosaveError{cause: a.lastErr}
}

// autosaveError pairs the sentinel with the underlying store failure.
type autosaveError struct {
	cause error
}

func (e *autosaveError) Error() string {
	return ErrAutosaveDisabled.Error() + ": " + e.cause.Error()
}

func (e *autosaveError) Is(target error) bool {
	return target == ErrAutosaveDisabled
}

func (e *autosaveError) Unwrap() error {
	return e.cause
}

package table

import (
	"context"
	"sync"
	"time"

	"github.com/lazharichir/holdem/domain"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Pauses are the waits the driver inserts so that clients can follow the hand
type Pauses struct {
	Street   time.Duration // before revealing the next street
	Showdown time.Duration // before paying out a showdown
	Results  time.Duration // after a hand, before dealing the next one
}

func DefaultPauses() Pauses {
	return Pauses{
		Street:   2 * time.Second,
		Showdown: 5 * time.Second,
		Results:  5 * time.Second,
	}
}

type drive int

const (
	driveContinue drive = iota
	driveIdle
	driveResults
	driveStop
)

// Loop owns one table. Every access to the table goes through its mutex;
// a driver goroutine deals hands, reveals streets and pays out.
type Loop struct {
	table  *domain.Table
	pauses Pauses
	log    logrus.FieldLogger

	mu     sync.Mutex
	wake   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	done   chan struct{}
	err    error
}

// NewLoop wraps a table. Register event handlers on the table before Start.
func NewLoop(t *domain.Table, pauses Pauses, log logrus.FieldLogger) *Loop {
	ctx, cancel := context.WithCancel(context.Background())
	return &Loop{
		table:  t,
		pauses: pauses,
		log:    log.WithField("table_id", t.ID),
		wake:   make(chan struct{}, 1),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// TableID returns the ID of the owned table
func (l *Loop) TableID() string {
	return l.table.ID
}

// Start launches the driver goroutine
func (l *Loop) Start() {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer close(l.done)
		l.run()
	}()
}

// Stop cancels any pause in progress and waits for the driver to exit
func (l *Loop) Stop() {
	l.cancel()
	l.wg.Wait()
}

// Done is closed once the driver has exited, either stopped, aborted or
// because the session ended
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Err returns the error that aborted the table, if any
func (l *Loop) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// SubmitAction applies a player action. Action errors come back unchanged.
func (l *Loop) SubmitAction(playerID string, a domain.Action) error {
	l.mu.Lock()
	err := l.table.Act(playerID, a)
	l.mu.Unlock()

	if err != nil {
		return err
	}
	l.notify()
	return nil
}

// Do runs fn with exclusive access to the table, then lets the driver
// re-check whether it can make progress
func (l *Loop) Do(fn func(t *domain.Table) error) error {
	l.mu.Lock()
	err := fn(l.table)
	l.mu.Unlock()

	l.notify()
	return err
}

// View runs fn with exclusive access to the table; fn must not keep
// references to the table's state
func (l *Loop) View(fn func(t *domain.Table)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.table)
}

func (l *Loop) notify() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) run() {
	l.log.Info("table loop started")
	for {
		if pause := l.pauseBeforeDrive(); pause > 0 && !l.sleep(pause) {
			l.log.Info("table loop stopped")
			return
		}

		l.mu.Lock()
		next, err := l.drive()
		if err != nil {
			l.err = err
		}
		l.mu.Unlock()

		if err != nil {
			l.log.WithError(err).Error("table aborted")
			return
		}

		switch next {
		case driveStop:
			l.log.Info("session over, table loop finished")
			return
		case driveResults:
			if !l.sleep(l.pauses.Results) {
				return
			}
		case driveIdle:
			select {
			case <-l.ctx.Done():
				l.log.Info("table loop stopped")
				return
			case <-l.wake:
			}
		}
	}
}

func (l *Loop) pauseBeforeDrive() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.table.Pending() {
	case domain.StatusStreetComplete:
		return l.pauses.Street
	case domain.StatusHandComplete:
		if l.table.Hand.Outcome == domain.OutcomeShowdown {
			return l.pauses.Showdown
		}
	}
	return 0
}

// drive performs one step of progress. It must be called with mu held.
func (l *Loop) drive() (drive, error) {
	t := l.table

	switch t.Pending() {
	case domain.StatusAwaitingAction:
		return driveIdle, nil

	case domain.StatusStreetComplete:
		if _, err := t.Advance(); err != nil {
			return driveStop, err
		}
		return driveContinue, nil

	case domain.StatusHandComplete:
		hand := t.Hand
		if _, err := t.Advance(); err != nil {
			return driveStop, err
		}
		log := l.log.WithFields(logrus.Fields{"hand_id": hand.ID, "hand_number": hand.Number})
		log.WithField("outcome", hand.Outcome).Info("hand resolved")
		log.Debug(hand.DebugString())
		return driveResults, nil
	}

	if t.Status == domain.TableStatusEnded {
		return driveStop, nil
	}
	if !t.CanStartHand() {
		return driveIdle, nil
	}

	hand, err := t.StartHand()
	switch {
	case errors.Is(err, domain.ErrSessionEnded):
		l.log.WithField("winner_id", t.WinnerID).Info("session ended")
		return driveStop, nil
	case errors.Is(err, domain.ErrNotEnoughPlayers):
		return driveIdle, nil
	case err != nil:
		return driveStop, errors.Wrap(err, "starting hand")
	}

	l.log.WithFields(logrus.Fields{
		"hand_id":     hand.ID,
		"hand_number": hand.Number,
		"players":     len(hand.Seats),
	}).Info("hand started")
	return driveContinue, nil
}

// sleep waits for d unless the loop is stopped first
func (l *Loop) sleep(d time.Duration) bool {
	if d <= 0 {
		return l.ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-l.ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

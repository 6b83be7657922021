package table

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/lazharichir/holdem/cards"
	"github.com/lazharichir/holdem/domain"
	"github.com/lazharichir/holdem/domain/events"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitTimeout = 2 * time.Second

// eventLog collects events from the driver goroutine
type eventLog struct {
	mu     sync.Mutex
	events []events.Event
}

func (l *eventLog) handle(e events.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) count(name string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.events {
		if e.Name() == name {
			n++
		}
	}
	return n
}

func (l *eventLog) waitFor(t *testing.T, name string, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return l.count(name) >= n },
		waitTimeout, 5*time.Millisecond, "waiting for %d %s", n, name)
}

func nullLogger() logrus.FieldLogger {
	log, _ := logtest.NewNullLogger()
	return log
}

func newTestTable(t *testing.T, players []string, opts ...domain.TableOption) (*domain.Table, *eventLog) {
	t.Helper()
	opts = append([]domain.TableOption{
		domain.WithTableID("tbl_loop"),
		domain.WithRand(rand.New(rand.NewSource(3))),
	}, opts...)
	tbl, err := domain.NewTable("loop", domain.DefaultRules(), opts...)
	require.NoError(t, err)

	log := &eventLog{}
	tbl.RegisterEventHandler(log.handle)
	for _, id := range players {
		_, err := tbl.Join(id, id)
		require.NoError(t, err)
	}
	return tbl, log
}

func waitDone(t *testing.T, loop *Loop) {
	t.Helper()
	select {
	case <-loop.Done():
	case <-time.After(waitTimeout):
		t.Fatal("loop did not finish")
	}
}

func TestLoop_PlaysHandsBackToBack(t *testing.T) {
	tbl, log := newTestTable(t, []string{"alice", "bob"})
	loop := NewLoop(tbl, Pauses{}, nullLogger())
	loop.Start()
	defer loop.Stop()

	log.waitFor(t, "HAND_STARTED", 1)
	require.NoError(t, loop.SubmitAction("bob", domain.Fold{}))

	log.waitFor(t, "HAND_ENDED", 1)
	log.waitFor(t, "HAND_STARTED", 2)

	loop.View(func(tbl *domain.Table) {
		assert.Equal(t, 2, tbl.HandCount)
		assert.Equal(t, domain.TableStatusPlaying, tbl.Status)
		assert.Equal(t, "bob", tbl.Hand.Seats[tbl.Hand.Dealer].PlayerID)
	})
}

func TestLoop_ActionErrorsPassThrough(t *testing.T) {
	tbl, log := newTestTable(t, []string{"alice", "bob", "carol"})
	loop := NewLoop(tbl, Pauses{}, nullLogger())
	loop.Start()
	defer loop.Stop()

	log.waitFor(t, "HAND_STARTED", 1)

	err := loop.SubmitAction("carol", domain.Check{})
	reason, ok := domain.ReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.ReasonNotYourTurn, reason)
	assert.Equal(t, 0, log.count("ACTION_APPLIED"))
}

func TestLoop_WaitsForPlayers(t *testing.T) {
	tbl, log := newTestTable(t, []string{"alice"})
	loop := NewLoop(tbl, Pauses{}, nullLogger())
	loop.Start()
	defer loop.Stop()

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, log.count("HAND_STARTED"))

	require.NoError(t, loop.Do(func(t *domain.Table) error {
		_, err := t.Join("bob", "Bob")
		return err
	}))
	log.waitFor(t, "HAND_STARTED", 1)
}

func TestLoop_FinishesWhenSessionEnds(t *testing.T) {
	tbl, log := newTestTable(t, []string{"alice"})
	loop := NewLoop(tbl, Pauses{}, nullLogger())
	loop.Start()
	defer loop.Stop()

	require.NoError(t, loop.Do(func(t *domain.Table) error {
		t.MarkSessionShouldEnd()
		return nil
	}))

	waitDone(t, loop)
	assert.NoError(t, loop.Err())
	assert.Equal(t, 1, log.count("SESSION_ENDED"))
	loop.View(func(tbl *domain.Table) {
		assert.Equal(t, "alice", tbl.WinnerID)
	})
}

func TestLoop_AbortsWhenTheDeckRunsOut(t *testing.T) {
	short := func() *cards.Deck { return cards.NewOrderedDeck(cards.MustParse("As Kd Qh")) }
	tbl, log := newTestTable(t, []string{"alice", "bob"}, domain.WithDeckSource(short))

	logger, hook := logtest.NewNullLogger()

	loop := NewLoop(tbl, Pauses{}, logger)
	loop.Start()
	defer loop.Stop()

	waitDone(t, loop)

	var exhausted *domain.ResourceExhaustionError
	require.True(t, errors.As(loop.Err(), &exhausted), "got %v", loop.Err())
	assert.ErrorIs(t, loop.Err(), cards.ErrEmptyDeck)
	assert.Equal(t, 0, log.count("HAND_STARTED"))
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "tbl_loop", hook.LastEntry().Data["table_id"])
}

func TestLoop_StopInterruptsPause(t *testing.T) {
	tbl, log := newTestTable(t, []string{"alice", "bob"})
	loop := NewLoop(tbl, Pauses{Results: time.Hour}, nullLogger())
	loop.Start()

	log.waitFor(t, "HAND_STARTED", 1)
	require.NoError(t, loop.SubmitAction("bob", domain.Fold{}))
	log.waitFor(t, "HAND_ENDED", 1)

	stopped := make(chan struct{})
	go func() {
		loop.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(waitTimeout):
		t.Fatal("Stop did not interrupt the results pause")
	}
	assert.Equal(t, 1, log.count("HAND_STARTED"))
}

func TestLoop_RunsOutAllInHand(t *testing.T) {
	tbl, log := newTestTable(t, []string{"alice", "bob"})
	loop := NewLoop(tbl, Pauses{Street: time.Millisecond, Showdown: time.Millisecond}, nullLogger())
	loop.Start()
	defer loop.Stop()

	log.waitFor(t, "HAND_STARTED", 1)
	require.NoError(t, loop.SubmitAction("bob", domain.Raise{Amount: 98}))
	require.NoError(t, loop.SubmitAction("alice", domain.Call{}))

	log.waitFor(t, "HAND_ENDED", 1)
	assert.Equal(t, 3, log.count("STREET_ADVANCED"))
	assert.Equal(t, 1, log.count("SHOWDOWN_REACHED"))
}

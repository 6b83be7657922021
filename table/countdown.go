package table

import (
	"context"
	"time"

	"github.com/lazharichir/holdem/domain"
	"github.com/sirupsen/logrus"
)

// Countdown is the session clock of one table. It only touches the session
// flags, through the loop's mutex.
type Countdown struct {
	loop       *Loop
	budget     time.Duration
	voteWindow time.Duration
	tick       time.Duration
	log        logrus.FieldLogger
}

func NewCountdown(loop *Loop, budget, voteWindow, tick time.Duration, log logrus.FieldLogger) *Countdown {
	return &Countdown{
		loop:       loop,
		budget:     budget,
		voteWindow: voteWindow,
		tick:       tick,
		log:        log.WithField("table_id", loop.TableID()),
	}
}

// Run reports the time left every tick. When it runs out, players get the
// vote window to ask for more, closed early once everyone seated has voted;
// enough votes add half the budget.
// Run returns when ctx is done, the loop exits or the session runs out.
func (c *Countdown) Run(ctx context.Context) {
	remaining := c.budget
	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.loop.Done():
			return
		case <-ticker.C:
		}

		remaining -= c.tick
		if remaining < 0 {
			remaining = 0
		}
		c.loop.Do(func(t *domain.Table) error {
			t.ReportTime(remaining)
			return nil
		})
		if remaining > 0 {
			continue
		}

		if !c.vote(ctx) {
			return
		}
		remaining = c.budget / 2
		c.log.WithField("remaining", remaining).Info("session extended")
	}
}

func (c *Countdown) vote(ctx context.Context) bool {
	c.loop.Do(func(t *domain.Table) error {
		t.OpenVoting()
		return nil
	})
	c.log.Info("time expired, voting open")

	timer := time.NewTimer(c.voteWindow)
	defer timer.Stop()
	poll := time.NewTicker(c.tick)
	defer poll.Stop()

wait:
	for {
		select {
		case <-ctx.Done():
			return false
		case <-c.loop.Done():
			return false
		case <-timer.C:
			break wait
		case <-poll.C:
			everyone := false
			c.loop.View(func(t *domain.Table) { everyone = t.EveryoneVoted() })
			if everyone {
				break wait
			}
		}
	}

	extended := false
	c.loop.Do(func(t *domain.Table) error {
		extended = t.CloseVoting()
		return nil
	})
	if !extended {
		c.log.Info("not enough votes, session ends after this hand")
	}
	return extended
}

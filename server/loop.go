package server

import (
	"context"
	"sync"
	"time"

	"github.com/pongarena/pongarena/game"
)

// playable is the capability set a driving loop needs from a match or a
// round.
type playable interface {
	Advance(moveBall bool) game.FrameMessage
	Status() game.Status
	SetStatus(game.Status)
	Score() (int, int)
	StampEnd()
	BuildScoreMessage() game.ScoreMessage
}

// Loop is the driving loop of one live match or round: it broadcasts the
// freeze countdown, then advances the engine at the fixed tick rate and
// broadcasts every frame until a terminal state. At most one loop exists
// per session and it is the only caller of Advance.
type Loop struct {
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// loopConfig binds a loop to its session and broadcast group.
type loopConfig struct {
	bus     *Bus
	group   string
	session playable

	// finish returns the terminal broadcast once either score reaches
	// the win threshold.
	finish func() any

	// aborted, when set, is an extra stop condition checked every tick
	// (a tournament in the error state stops its round loops).
	aborted func() bool
}

// startLoop spawns the driving loop goroutine.
func startLoop(cfg loopConfig) *Loop {
	ctx, cancel := context.WithCancel(context.Background())
	l := &Loop{cancel: cancel, done: make(chan struct{})}
	go l.run(ctx, cfg)
	return l
}

// Stop cancels the loop and waits for it to finish. Safe to call from
// multiple goroutines and after the loop has already ended naturally.
func (l *Loop) Stop() {
	l.stopOnce.Do(l.cancel)
	<-l.done
}

// Done reports loop completion.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) run(ctx context.Context, cfg loopConfig) {
	defer close(l.done)

	ticker := time.NewTicker(game.TickInterval)
	defer ticker.Stop()

	if !l.freeze(ctx, ticker, cfg) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if cfg.aborted != nil && cfg.aborted() {
			return
		}

		switch cfg.session.Status() {
		case game.StatusPlaying:
			cfg.bus.Publish(cfg.group, cfg.session.Advance(true))

		case game.StatusScore:
			cfg.bus.Publish(cfg.group, cfg.session.BuildScoreMessage())
			s1, s2 := cfg.session.Score()
			if s1 == game.MaxScore || s2 == game.MaxScore {
				cfg.bus.Publish(cfg.group, cfg.finish())
				cfg.session.SetStatus(game.StatusEnd)
				cfg.session.StampEnd()
				return
			}
			cfg.session.SetStatus(game.StatusPlaying)
			if !l.freeze(ctx, ticker, cfg) {
				return
			}

		case game.StatusError:
			return
		}
	}
}

// freeze broadcasts the pre-play countdown: FreezeFrames frames with the
// ball held still. Reused after every score. Returns false if the loop
// was cancelled or the session aborted mid-countdown.
func (l *Loop) freeze(ctx context.Context, ticker *time.Ticker, cfg loopConfig) bool {
	for i := 0; i < game.FreezeFrames; i++ {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
		if cfg.aborted != nil && cfg.aborted() {
			return false
		}
		if cfg.session.Status() == game.StatusError {
			return false
		}
		cfg.bus.Publish(cfg.group, cfg.session.Advance(false))
	}
	return true
}

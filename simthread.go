package main

import (
	"context"
	"time"

	"buildingsim/common"
	"buildingsim/session"
)

// simThread is the only goroutine that touches the session, so the
// building never sees concurrent calls.
func simThread(
	ctx context.Context,
	cancel context.CancelFunc,
	cfg common.ConsoleConfig,
	sess *session.Session,
	lineCh <-chan string,
) {
	Log.Debug().Msgf("simThread started (session=%s)", sess.ID)

	// nil channel: automatic stepping off
	var tickCh <-chan time.Time
	if cfg.TickInterval > 0 {
		ticker := time.NewTicker(cfg.TickInterval)
		defer ticker.Stop()
		tickCh = ticker.C
		Log.Info().Msgf("stepping automatically every %s", cfg.TickInterval)
	}

	for {
		select {
		case <-ctx.Done():
			return

		case line := <-lineCh:
			quit, _ := sess.HandleLine(line)
			if quit {
				cancel()
				return
			}

		case <-tickCh:
			_, _ = sess.Execute(session.Command{Kind: session.CmdStep})
		}
	}
}

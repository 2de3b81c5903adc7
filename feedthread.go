package main

import (
	"context"

	"buildingsim/common"
	"buildingsim/elevnetwork"
)

// feedThread serves the report feed and publishes every report the
// simulation hands over.
func feedThread(
	ctx context.Context,
	cfg common.FeedConfig,
	sessionID string,
	reportCh <-chan common.BuildingReport,
) {
	fs := elevnetwork.NewFeedServer(sessionID, cfg.Outbox)

	go func() {
		if err := fs.Serve(ctx, cfg.Listen); err != nil {
			Log.Error().Err(err).Msg("feedThread: feed stopped")
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case report := <-reportCh:
			if err := fs.Publish(report); err != nil {
				Log.Warn().Err(err).Msg("feedThread: publish failed")
			}
		}
	}
}

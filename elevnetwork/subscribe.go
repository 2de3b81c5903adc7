package elevnetwork

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	openStreamTimeout = 2 * time.Second
	dialTimeout       = 4 * time.Second
)

// Subscribe connects to a feed and returns the id the server assigned and a
// channel of messages. The channel closes when ctx ends or the feed goes away.
func Subscribe(ctx context.Context, addr string) (uuid.UUID, <-chan FeedMessage, error) {
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	conn, st, err := DialQUIC(dialCtx, addr, DefaultQUICConfig(), openStreamTimeout)
	if err != nil {
		return uuid.Nil, nil, err
	}
	id, err := helloAsSubscriber(st)
	if err != nil {
		CloseQUIC(conn, st, "hello failed")
		return uuid.Nil, nil, fmt.Errorf("subscribe %s: %w", addr, err)
	}

	out := make(chan FeedMessage)
	go func() {
		defer close(out)
		stop := context.AfterFunc(ctx, func() { CloseQUIC(conn, st, "bye") })
		defer stop()
		defer CloseQUIC(conn, st, "bye")

		err := ReadFrames(ctx, st, func(frame []byte) {
			var msg FeedMessage
			if err := json.Unmarshal(frame, &msg); err != nil {
				Log.Warn().Err(err).Msg("feed: undecodable frame")
				return
			}
			select {
			case out <- msg:
			case <-ctx.Done():
			}
		})
		if err != nil && ctx.Err() == nil {
			Log.Warn().Err(err).Msgf("feed: %s", addr)
		}
	}()
	return id, out, nil
}

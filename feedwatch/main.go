// Command feedwatch subscribes to a running console's report feed and
// prints every report it receives. It reconnects when the feed goes away.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"buildingsim/elevnetwork"
	"buildingsim/logger"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:4242", "feed address ip:port")
	raw := flag.Bool("json", false, "print raw JSON instead of the table")
	retry := flag.Duration("retry", 2*time.Second, "max delay between reconnect attempts")
	flag.Parse()

	log := logger.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		cancel()
	}()

	backoff := 200 * time.Millisecond
	for ctx.Err() == nil {
		id, messages, err := elevnetwork.Subscribe(ctx, *addr)
		if err != nil {
			log.Warn().Err(err).Msgf("feedwatch: %s unreachable, retrying", *addr)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
			}
			backoff = min(backoff*2, *retry)
			continue
		}
		backoff = 200 * time.Millisecond
		log.Info().Msgf("feedwatch: subscribed to %s as %s", *addr, id)

		for msg := range messages {
			if *raw {
				b, _ := json.Marshal(msg)
				fmt.Println(string(b))
				continue
			}
			fmt.Printf("[%s #%d]\n%s\n", msg.SessionID, msg.Seq, msg.Report)
		}
		if ctx.Err() == nil {
			log.Warn().Msgf("feedwatch: feed %s closed, reconnecting", *addr)
		}
	}
}

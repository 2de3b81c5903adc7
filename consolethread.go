package main

import (
	"bufio"
	"context"
	"io"
)

// consoleThread forwards stdin line by line. End of input ends the program.
func consoleThread(
	ctx context.Context,
	cancel context.CancelFunc,
	in io.Reader,
	lineCh chan<- string,
) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case lineCh <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		Log.Error().Err(err).Msg("consoleThread: read failed")
	}
	cancel()
}

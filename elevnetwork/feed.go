package elevnetwork

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"buildingsim/common"
	"buildingsim/logger"

	"github.com/google/uuid"
	quic "github.com/quic-go/quic-go"
)

var Log = logger.GetLogger()

const (
	DEFAULT_OUTBOX = 16
	writeTimeout   = 2 * time.Second
)

// FeedMessage is the JSON payload of every frame after the welcome.
type FeedMessage struct {
	SessionID string                `json:"sessionId"`
	Seq       uint64                `json:"seq"`
	Report    common.BuildingReport `json:"report"`
}

type subscriber struct {
	id     uuid.UUID
	conn   *quic.Conn
	stream *quic.Stream
	outbox chan []byte
}

// enqueue never blocks; when the outbox is full the oldest payload goes.
func (s *subscriber) enqueue(payload []byte) (dropped bool) {
	for {
		select {
		case s.outbox <- payload:
			return dropped
		default:
		}
		select {
		case <-s.outbox:
			dropped = true
		default:
		}
	}
}

// FeedServer pushes building reports to every connected subscriber.
type FeedServer struct {
	sessionID  string
	outboxSize int
	quicConf   *quic.Config

	mu          sync.RWMutex
	subscribers map[uuid.UUID]*subscriber
	seq         uint64
	addr        net.Addr
	ready       chan struct{}
}

func NewFeedServer(sessionID string, outboxSize int) *FeedServer {
	if outboxSize <= 0 {
		outboxSize = DEFAULT_OUTBOX
	}
	return &FeedServer{
		sessionID:   sessionID,
		outboxSize:  outboxSize,
		quicConf:    DefaultQUICConfig(),
		subscribers: make(map[uuid.UUID]*subscriber),
		ready:       make(chan struct{}),
	}
}

// Ready is closed once Serve is listening.
func (fs *FeedServer) Ready() <-chan struct{} { return fs.ready }

func (fs *FeedServer) Addr() net.Addr {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.addr
}

func (fs *FeedServer) SubscriberCount() int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return len(fs.subscribers)
}

// Serve accepts subscribers on listenAddr until ctx is done.
func (fs *FeedServer) Serve(ctx context.Context, listenAddr string) error {
	ln, err := ListenQUIC(listenAddr, fs.quicConf)
	if err != nil {
		return err
	}
	defer ln.Close()

	fs.mu.Lock()
	fs.addr = ln.Addr()
	fs.mu.Unlock()
	close(fs.ready)
	Log.Info().Msgf("feed: listening on %s", ln.Addr())

	for {
		conn, err := ln.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				fs.closeAll("shutdown")
				return nil
			}
			return fmt.Errorf("quic accept: %w", err)
		}
		go fs.handleIncomingConn(ctx, conn)
	}
}

func (fs *FeedServer) handleIncomingConn(ctx context.Context, conn *quic.Conn) {
	st, err := conn.AcceptStream(ctx)
	if err != nil {
		_ = conn.CloseWithError(0, "no stream")
		return
	}
	if err := readHello(st); err != nil {
		Log.Warn().Err(err).Msgf("feed: rejecting %v", conn.RemoteAddr())
		CloseQUIC(conn, st, "hello failed")
		return
	}

	sub := &subscriber{
		id:     uuid.New(),
		conn:   conn,
		stream: st,
		outbox: make(chan []byte, fs.outboxSize),
	}
	fs.add(sub)
	if err := sendWelcome(st, sub.id); err != nil {
		Log.Warn().Err(err).Msgf("feed: subscriber %s", sub.id)
		fs.remove(sub.id)
		CloseQUIC(conn, st, "welcome failed")
		return
	}
	Log.Info().Msgf("feed: subscriber %s joined from %v", sub.id, conn.RemoteAddr())

	fs.writeLoop(ctx, sub)
}

func (fs *FeedServer) writeLoop(ctx context.Context, sub *subscriber) {
	defer func() {
		fs.remove(sub.id)
		CloseQUIC(sub.conn, sub.stream, "bye")
		Log.Info().Msgf("feed: subscriber %s left", sub.id)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.conn.Context().Done():
			return
		case payload := <-sub.outbox:
			if err := WriteFrame(sub.stream, payload, writeTimeout); err != nil {
				Log.Warn().Err(err).Msgf("feed: subscriber %s", sub.id)
				return
			}
		}
	}
}

// Publish queues report for every subscriber. It never blocks on the network.
func (fs *FeedServer) Publish(report common.BuildingReport) error {
	fs.mu.Lock()
	fs.seq++
	msg := FeedMessage{SessionID: fs.sessionID, Seq: fs.seq, Report: report}
	subs := make([]*subscriber, 0, len(fs.subscribers))
	for _, s := range fs.subscribers {
		subs = append(subs, s)
	}
	fs.mu.Unlock()

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if len(payload) > MAX_FRAME_SIZE {
		return fmt.Errorf("%w: report is %d bytes", ErrFrameTooLarge, len(payload))
	}

	for _, s := range subs {
		if s.enqueue(payload) {
			Log.Debug().Msgf("feed: subscriber %s is behind, dropped oldest report", s.id)
		}
	}
	return nil
}

func (fs *FeedServer) add(s *subscriber) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.subscribers[s.id] = s
}

func (fs *FeedServer) remove(id uuid.UUID) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	delete(fs.subscribers, id)
}

func (fs *FeedServer) closeAll(reason string) {
	fs.mu.Lock()
	subs := fs.subscribers
	fs.subscribers = make(map[uuid.UUID]*subscriber)
	fs.mu.Unlock()
	for _, s := range subs {
		CloseQUIC(s.conn, s.stream, reason)
	}
}

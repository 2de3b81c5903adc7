package elevnetwork

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net"
	"time"

	"github.com/libp2p/go-reuseport"
	quic "github.com/quic-go/quic-go"
)

const (
	FEED_ALPN       = "buildingsim-feed"
	MAX_FRAME_SIZE  = 64 * 1024 // payload bytes, excluding the length prefix
	frameHeaderSize = 4
)

var ErrFrameTooLarge = errors.New("frame too large")

func NewQUICServerTLSConfig() (*tls.Config, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("rsa key: %w", err)
	}

	serial, err := rand.Int(rand.Reader, big.NewInt(1<<62))
	if err != nil {
		return nil, fmt.Errorf("serial: %w", err)
	}

	certTmpl := &x509.Certificate{
		SerialNumber: serial,
		NotBefore:    time.Now().Add(-1 * time.Hour),
		NotAfter:     time.Now().Add(365 * 24 * time.Hour),

		KeyUsage:    x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},

		BasicConstraintsValid: true,
	}

	der, err := x509.CreateCertificate(rand.Reader, certTmpl, certTmpl, &key.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("create cert: %w", err)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{{Certificate: [][]byte{der}, PrivateKey: key}},
		NextProtos:   []string{FEED_ALPN},
		MinVersion:   tls.VersionTLS13,
	}, nil
}

// The feed is read-only and self-signed, so watchers skip verification.
func NewQUICClientTLSConfig() *tls.Config {
	return &tls.Config{
		InsecureSkipVerify: true,
		NextProtos:         []string{FEED_ALPN},
		MinVersion:         tls.VersionTLS13,
	}
}

func DefaultQUICConfig() *quic.Config {
	return &quic.Config{
		KeepAlivePeriod:      2 * time.Second,
		HandshakeIdleTimeout: 3 * time.Second,
		MaxIdleTimeout:       6 * time.Second,
	}
}

// Listener bundles the QUIC listener with the UDP socket under it,
// which quic-go does not close for us.
type Listener struct {
	*quic.Listener
	pc net.PacketConn
}

func (l *Listener) Close() error {
	err := l.Listener.Close()
	if cerr := l.pc.Close(); err == nil {
		err = cerr
	}
	return err
}

// ListenQUIC binds listenAddr with SO_REUSEPORT so a restarted console can
// take the port back while the old socket lingers.
func ListenQUIC(listenAddr string, quicConf *quic.Config) (*Listener, error) {
	tlsConf, err := NewQUICServerTLSConfig()
	if err != nil {
		return nil, fmt.Errorf("server tls config: %w", err)
	}

	pc, err := reuseport.ListenPacket("udp4", listenAddr)
	if err != nil {
		return nil, fmt.Errorf("udp listen %s: %w", listenAddr, err)
	}

	ln, err := quic.Listen(pc, tlsConf, quicConf)
	if err != nil {
		_ = pc.Close()
		return nil, fmt.Errorf("quic listen: %w", err)
	}
	return &Listener{Listener: ln, pc: pc}, nil
}

func DialQUIC(
	ctx context.Context,
	remoteAddr string,
	quicConf *quic.Config,
	openStreamTimeout time.Duration,
) (*quic.Conn, *quic.Stream, error) {
	conn, err := quic.DialAddr(ctx, remoteAddr, NewQUICClientTLSConfig(), quicConf)
	if err != nil {
		return nil, nil, fmt.Errorf("quic dial: %w", err)
	}

	stCtx := ctx
	if openStreamTimeout > 0 {
		var cancel context.CancelFunc
		stCtx, cancel = context.WithTimeout(ctx, openStreamTimeout)
		defer cancel()
	}

	stream, err := conn.OpenStreamSync(stCtx)
	if err != nil {
		_ = conn.CloseWithError(0, "open stream failed")
		return nil, nil, fmt.Errorf("open stream: %w", err)
	}
	return conn, stream, nil
}

func CloseQUIC(conn *quic.Conn, stream *quic.Stream, reason string) {
	if stream != nil {
		_ = stream.Close()
	}
	if conn != nil {
		_ = conn.CloseWithError(0, reason)
	}
}

// WriteFrame writes a 4-byte big-endian length followed by payload.
func WriteFrame(w io.Writer, payload []byte, timeout time.Duration) error {
	if w == nil {
		return fmt.Errorf("writer is nil")
	}
	if len(payload) > MAX_FRAME_SIZE {
		return fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, len(payload), MAX_FRAME_SIZE)
	}

	// quic.Stream supports deadlines
	if d, ok := w.(interface{ SetWriteDeadline(time.Time) error }); ok && timeout > 0 {
		_ = d.SetWriteDeadline(time.Now().Add(timeout))
		defer d.SetWriteDeadline(time.Time{})
	}

	frame := make([]byte, frameHeaderSize+len(payload))
	binary.BigEndian.PutUint32(frame[:frameHeaderSize], uint32(len(payload)))
	copy(frame[frameHeaderSize:], payload)

	total := 0
	for total < len(frame) {
		n, err := w.Write(frame[total:])
		total += n
		if err != nil {
			return fmt.Errorf("write frame: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("write frame: wrote 0 bytes")
		}
	}
	return nil
}

// ReadFrame reads one length-prefixed frame. A clean end of stream before
// the header yields io.EOF.
func ReadFrame(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("reader is nil")
	}
	var header [frameHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}
	size := binary.BigEndian.Uint32(header[:])
	if size > MAX_FRAME_SIZE {
		return nil, fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, size, MAX_FRAME_SIZE)
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("read frame: %w", err)
	}
	return payload, nil
}

// ReadFrames calls handler for every frame until the stream ends or ctx is done.
func ReadFrames(ctx context.Context, r io.Reader, handler func(frame []byte)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		frame, err := ReadFrame(r)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return err
		}
		handler(frame)
	}
}

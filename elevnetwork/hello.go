package elevnetwork

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"
	quic "github.com/quic-go/quic-go"
)

const (
	helloMagic   uint32 = 0x48454C4F // "HELO"
	welcomeMagic uint32 = 0x57434D45 // "WCME"
	feedVersion  uint32 = 1
	helloTimeout        = 2 * time.Second
)

func encodeHelloFrame() []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint32(b[0:4], helloMagic)
	binary.BigEndian.PutUint32(b[4:8], feedVersion)
	return b
}

func decodeHelloFrame(frame []byte) error {
	if len(frame) != 8 || binary.BigEndian.Uint32(frame[0:4]) != helloMagic {
		return fmt.Errorf("invalid hello")
	}
	if v := binary.BigEndian.Uint32(frame[4:8]); v != feedVersion {
		return fmt.Errorf("unsupported feed version %d", v)
	}
	return nil
}

func encodeWelcomeFrame(id uuid.UUID) []byte {
	b := make([]byte, 4+len(id))
	binary.BigEndian.PutUint32(b[0:4], welcomeMagic)
	copy(b[4:], id[:])
	return b
}

func decodeWelcomeFrame(frame []byte) (uuid.UUID, error) {
	if len(frame) != 4+16 || binary.BigEndian.Uint32(frame[0:4]) != welcomeMagic {
		return uuid.Nil, fmt.Errorf("invalid welcome")
	}
	return uuid.FromBytes(frame[4:])
}

func readFrameWithin(st *quic.Stream, timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		_ = st.SetReadDeadline(time.Now().Add(timeout))
		defer st.SetReadDeadline(time.Time{})
	}
	return ReadFrame(st)
}

// helloAsSubscriber sends HELO and waits for the server's welcome.
func helloAsSubscriber(st *quic.Stream) (uuid.UUID, error) {
	if st == nil {
		return uuid.Nil, fmt.Errorf("stream is nil")
	}
	if err := WriteFrame(st, encodeHelloFrame(), helloTimeout); err != nil {
		return uuid.Nil, fmt.Errorf("send hello: %w", err)
	}
	frame, err := readFrameWithin(st, helloTimeout)
	if err != nil {
		return uuid.Nil, fmt.Errorf("read welcome: %w", err)
	}
	return decodeWelcomeFrame(frame)
}

// readHello waits for a subscriber's HELO.
func readHello(st *quic.Stream) error {
	if st == nil {
		return fmt.Errorf("stream is nil")
	}
	frame, err := readFrameWithin(st, helloTimeout)
	if err != nil {
		return fmt.Errorf("read hello: %w", err)
	}
	return decodeHelloFrame(frame)
}

func sendWelcome(st *quic.Stream, id uuid.UUID) error {
	if err := WriteFrame(st, encodeWelcomeFrame(id), helloTimeout); err != nil {
		return fmt.Errorf("send welcome: %w", err)
	}
	return nil
}

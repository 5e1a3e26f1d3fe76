// Package tcpingest provides a TCP stream source for raw Annex B H.264.
package tcpingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/ideamans/go-l10n"

	"github.com/Fuxill/WinCamStreamIOS/pkg/ports"
)

// readPollWindow bounds how long a single ReadNext may wait on the socket
// before reporting that no data is available.
const readPollWindow = time.Millisecond

// probePollWindow is the per-read deadline while probing for stream
// parameters, long enough to ride out sender startup.
const probePollWindow = 100 * time.Millisecond

// Source reads an Annex B H.264 elementary stream from a TCP connection
// and reassembles it into access units.
type Source struct {
	addr       string
	probeBytes int
	logger     ports.Logger

	conn      *net.TCPConn
	assembler auAssembler
	readBuf   []byte
}

// New creates a TCP source. url accepts "tcp://host:port" or a bare
// "host:port"; probeBytes bounds how much data Open inspects while looking
// for the stream parameters.
func New(url string, probeBytes int, logger ports.Logger) *Source {
	return &Source{
		addr:       strings.TrimPrefix(url, "tcp://"),
		probeBytes: probeBytes,
		logger:     logger.WithComponent("ingest"),
	}
}

// Open connects to the sender and probes the head of the stream for an
// SPS to learn the coded picture size. Probed bytes are kept, so the
// access units they form are still delivered by ReadNext.
func (s *Source) Open(ctx context.Context) (ports.StreamDescriptor, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return ports.StreamDescriptor{}, fmt.Errorf("connect to %s: %w", s.addr, err)
	}
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		conn.Close()
		return ports.StreamDescriptor{}, fmt.Errorf("connect to %s: not a TCP connection", s.addr)
	}
	tcpConn.SetNoDelay(true)
	s.conn = tcpConn
	s.readBuf = make([]byte, 32*1024)

	desc := ports.StreamDescriptor{Codec: "h264"}
	s.logger.Debug(l10n.F("Probing stream (up to %d bytes)", s.probeBytes))
	width, height, err := s.probe(ctx)
	if err != nil {
		s.conn.Close()
		s.conn = nil
		return ports.StreamDescriptor{}, fmt.Errorf("probe stream at %s: %w", s.addr, err)
	}
	desc.Width, desc.Height = width, height
	s.logger.Info(l10n.F("Negotiated %s stream %dx%d", desc.Codec, desc.Width, desc.Height))
	return desc, nil
}

// probe accumulates stream data until an SPS shows up or the probe budget
// is spent. Everything read stays in the assembler.
func (s *Source) probe(ctx context.Context) (int, int, error) {
	for {
		if w, h, err := probeDimensions(s.assembler.buf); err == nil {
			return w, h, nil
		}
		if s.assembler.Buffered() >= s.probeBytes {
			return 0, 0, fmt.Errorf("%w within %d bytes", errNoSPS, s.probeBytes)
		}
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}

		s.conn.SetReadDeadline(time.Now().Add(probePollWindow))
		n, err := s.conn.Read(s.readBuf)
		if n > 0 {
			s.assembler.Push(s.readBuf[:n])
		}
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			if errors.Is(err, io.EOF) {
				return 0, 0, fmt.Errorf("stream ended during probe: %w", errNoSPS)
			}
			return 0, 0, err
		}
	}
}

// ReadNext returns the oldest complete access unit. When the socket has
// nothing to deliver within the poll window it returns ports.ErrWouldBlock
// so the caller can keep its loop moving.
func (s *Source) ReadNext() (ports.CompressedUnit, error) {
	if s.conn == nil {
		return ports.CompressedUnit{}, ports.ErrEndOfStream
	}
	if au, ok := s.assembler.Next(); ok {
		return ports.CompressedUnit{Data: au}, nil
	}

	s.conn.SetReadDeadline(time.Now().Add(readPollWindow))
	n, err := s.conn.Read(s.readBuf)
	if n > 0 {
		s.assembler.Push(s.readBuf[:n])
	}
	var readErr error
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			// Fall through: the read may still have completed a unit.
		} else if errors.Is(err, io.EOF) {
			readErr = ports.ErrEndOfStream
		} else {
			return ports.CompressedUnit{}, err
		}
	}

	// A unit completed by this read outranks the stream ending behind it.
	if au, ok := s.assembler.Next(); ok {
		return ports.CompressedUnit{Data: au}, nil
	}
	if readErr != nil {
		return ports.CompressedUnit{}, readErr
	}
	return ports.CompressedUnit{}, ports.ErrWouldBlock
}

// Close shuts the connection down.
func (s *Source) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

var _ ports.StreamSource = (*Source)(nil)

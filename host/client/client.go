// Package client talks to a gridpad over a raw MIDI byte stream. Replies
// are rebuilt with the same packetizer and reassembler the firmware uses.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"gridpad/core"
	"gridpad/host/serial"
	"gridpad/internal/syncutil"
	"gridpad/protocol"
)

// DefaultTimeout bounds the wait for a reply when the context has no deadline
const DefaultTimeout = 2 * time.Second

const replyQueue = 64

var (
	ErrClosed     = errors.New("client closed")
	ErrNoReply    = errors.New("no reply from device")
	ErrNotApplied = errors.New("device did not store the pushed value")

	ErrMalformedReply = errors.New("malformed reply")
	ErrEmptyPush      = errors.New("no settings to push")
)

// Message is one reassembled message from the device
type Message struct {
	State protocol.State
	Data  []byte
}

// Client is a session with one device. Requests are serialized; replies
// arrive on a background reader.
type Client struct {
	rw      io.ReadWriter
	log     zerolog.Logger
	replies chan Message

	mu      syncutil.Mutex // one request in flight
	scratch protocol.ScratchOutput

	closeMu syncutil.Mutex
	closed  bool
	done    chan struct{}
	readErr error
}

// Option configures a Client
type Option func(*Client)

// WithLogger sets the session logger
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// New starts a session over rw
func New(rw io.ReadWriter, opts ...Option) *Client {
	c := &Client{
		rw:      rw,
		log:     zerolog.Nop(),
		replies: make(chan Message, replyQueue),
		done:    make(chan struct{}),
	}
	for _, o := range opts {
		o(c)
	}
	go c.readLoop()
	return c
}

// Dial opens a serial port and starts a session on it
func Dial(cfg *serial.Config, opts ...Option) (*Client, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := port.Flush(); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to flush %s: %w", cfg.Device, err)
	}
	return New(port, opts...), nil
}

// Close stops the session and closes the underlying stream if it can be
// closed
func (c *Client) Close() error {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	if cl, ok := c.rw.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}

// Done is closed when the reader stops
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Err returns the error that stopped the reader, once Done is closed
func (c *Client) Err() error {
	select {
	case <-c.done:
		return c.readErr
	default:
		return nil
	}
}

// Route implements protocol.Router for the reader
func (c *Client) Route(state protocol.State, msg []byte) {
	m := Message{State: state, Data: append([]byte(nil), msg...)}
	select {
	case c.replies <- m:
	default:
		c.log.Warn().Str("state", state.String()).Int("len", len(msg)).Msg("reply queue full, message dropped")
	}
}

// ClearColors implements protocol.Router. Devices never send the clear
// marker.
func (c *Client) ClearColors() {}

func (c *Client) readLoop() {
	defer close(c.done)

	r := protocol.NewReassembler(c)
	z := protocol.NewPacketizer(r)
	buf := make([]byte, 256)
	for {
		n, err := c.rw.Read(buf)
		if n > 0 {
			_, _ = z.Write(buf[:n])
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				c.log.Debug().Err(err).Msg("reader stopped")
			}
			c.readErr = err
			return
		}
	}
}

// send writes a complete message. The caller holds c.mu.
func (c *Client) send(msg []byte) error {
	c.log.Trace().Hex("msg", msg).Msg("send")
	if _, err := c.rw.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}

// drain discards replies left over from earlier requests
func (c *Client) drain() {
	for {
		select {
		case m := <-c.replies:
			c.log.Debug().Str("state", m.State.String()).Msg("discarding stale reply")
		default:
			return
		}
	}
}

// await returns the first reply accepted by match
func (c *Client) await(ctx context.Context, match func(Message) bool) (Message, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	for {
		select {
		case m := <-c.replies:
			if match(m) {
				return m, nil
			}
			c.log.Debug().Str("state", m.State.String()).Hex("data", m.Data).Msg("ignoring unrelated reply")
		case <-c.done:
			return Message{}, ErrClosed
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return Message{}, ErrNoReply
			}
			return Message{}, ctx.Err()
		}
	}
}

// sendVendor wraps a command in the vendor envelope and sends it. The
// caller holds c.mu.
func (c *Client) sendVendor(cmd byte, payload ...byte) error {
	msg, err := protocol.VendorMessage(&c.scratch, cmd, payload...)
	if err != nil {
		return fmt.Errorf("command %d: %w", cmd, err)
	}
	return c.send(msg)
}

func isConfigReply(m Message) bool {
	return m.State == protocol.StateVendor && len(m.Data) >= 2 &&
		m.Data[0] == protocol.CommandPullConfig && m.Data[1] == 0x01
}

// Identify sends the universal device inquiry
func (c *Client) Identify(ctx context.Context) (protocol.Identity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.drain()
	if err := c.send(protocol.IdentifyRequest); err != nil {
		return protocol.Identity{}, err
	}

	var id protocol.Identity
	_, err := c.await(ctx, func(m Message) bool {
		if m.State != protocol.StateNonRealtime {
			return false
		}
		var ok bool
		id, ok = protocol.ParseIdentity(m.Data)
		return ok
	})
	if err != nil {
		return protocol.Identity{}, fmt.Errorf("identify: %w", err)
	}
	return id, nil
}

// PullConfig reads the stored configuration
func (c *Client) PullConfig(ctx context.Context) (core.ConfigRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.drain()
	if err := c.sendVendor(protocol.CommandPullConfig, 0x00); err != nil {
		return core.ConfigRecord{}, err
	}
	m, err := c.await(ctx, isConfigReply)
	if err != nil {
		return core.ConfigRecord{}, fmt.Errorf("pull config: %w", err)
	}
	return core.DecodeConfigRecord(m.Data[2:]), nil
}

// PushConfig writes the tags present in rec and returns the echoed
// configuration. Reported tags that differ from what was pushed yield
// ErrNotApplied along with the echo.
func (c *Client) PushConfig(ctx context.Context, rec core.ConfigRecord) (core.ConfigRecord, error) {
	if rec.Count() == 0 {
		return core.ConfigRecord{}, ErrEmptyPush
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var pairs [2 * core.ConfigTags]byte
	c.drain()
	if err := c.sendVendor(protocol.CommandPushConfig, rec.AppendPairs(pairs[:0])...); err != nil {
		return core.ConfigRecord{}, err
	}
	m, err := c.await(ctx, isConfigReply)
	if err != nil {
		return core.ConfigRecord{}, fmt.Errorf("push config: %w", err)
	}

	echo := core.DecodeConfigRecord(m.Data[2:])
	for _, tag := range core.PullTags {
		want, ok := rec.Get(tag)
		if !ok {
			continue
		}
		if got, _ := echo.Get(tag); got != want&0x7F {
			return echo, fmt.Errorf("%s: pushed %d, device reports %d: %w", core.TagName(tag), want, got, ErrNotApplied)
		}
	}
	return echo, nil
}

// FactoryReset restores the device defaults and returns the new
// configuration
func (c *Client) FactoryReset(ctx context.Context) (core.ConfigRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.drain()
	if err := c.sendVendor(protocol.CommandSystem, core.SystemFactoryReset); err != nil {
		return core.ConfigRecord{}, err
	}
	m, err := c.await(ctx, isConfigReply)
	if err != nil {
		return core.ConfigRecord{}, fmt.Errorf("factory reset: %w", err)
	}
	return core.DecodeConfigRecord(m.Data[2:]), nil
}

// EnterBootloader asks the device to restart into its update mode. The
// device does not reply.
func (c *Client) EnterBootloader() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sendVendor(protocol.CommandSystem, core.SystemUpdateMode)
}

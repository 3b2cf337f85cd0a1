package client

import (
	"context"
	"fmt"

	"gridpad/color"
	"gridpad/core"
	"gridpad/protocol"
)

// ColorTable is one stored color table as it travels in bulk transfers:
// every bank, every button, RGB in wire range
type ColorTable [core.ColorTableSize]byte

// Set stores the wire form of a palette color
func (t *ColorTable) Set(bank, button uint8, id color.ID) {
	i := t.index(bank, button)
	t[i], t[i+1], t[i+2] = id.RGB().Wire()
}

// ID returns the palette color the device stores for a button
func (t *ColorTable) ID(bank, button uint8, lim *color.PowerLimiter) color.ID {
	i := t.index(bank, button)
	return lim.WireID(t[i], t[i+1], t[i+2])
}

func (t *ColorTable) index(bank, button uint8) int {
	return int(core.ColorAddress(0, bank, button&color.ButtonMask))
}

// LimiterFor returns the limiter the device applies to a bulk tag
func LimiterFor(tag uint8) *color.PowerLimiter {
	if tag == core.TagActiveColors {
		return &color.ActiveLimiter
	}
	return &color.IdleLimiter
}

func checkColorTag(tag uint8) error {
	if tag != core.TagIdleColors && tag != core.TagActiveColors {
		return fmt.Errorf("tag %d: %w", tag, core.ErrUnsupportedTag)
	}
	return nil
}

// PullColors reads a whole color table
func (c *Client) PullColors(ctx context.Context, tag uint8) (ColorTable, error) {
	var table ColorTable
	if err := checkColorTag(tag); err != nil {
		return table, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}

	c.drain()
	if err := c.sendVendor(protocol.CommandBulkTransfer, core.BulkPull, tag); err != nil {
		return table, err
	}

	var seen uint32
	total := 0
	for total == 0 || countBits(seen) < total {
		m, err := c.await(ctx, func(m Message) bool {
			return m.State == protocol.StateVendor && len(m.Data) >= 6 &&
				m.Data[0] == protocol.CommandBulkTransfer && m.Data[1] == core.BulkPush && m.Data[2] == tag
		})
		if err != nil {
			return table, fmt.Errorf("pull colors: part %d of %d: %w", countBits(seen)+1, total, err)
		}

		part, n, size := int(m.Data[3]), int(m.Data[4]), int(m.Data[5])
		payload := m.Data[6:]
		switch {
		case n < 1 || n > core.MaxParts:
			return table, fmt.Errorf("pull colors: total %d: %w", n, ErrMalformedReply)
		case total != 0 && n != total:
			return table, fmt.Errorf("pull colors: total changed from %d to %d: %w", total, n, ErrMalformedReply)
		case part < 1 || part > n:
			return table, fmt.Errorf("pull colors: part %d of %d: %w", part, n, ErrMalformedReply)
		case size > core.ChunkSize || size > len(payload):
			return table, fmt.Errorf("pull colors: part %d size %d: %w", part, size, ErrMalformedReply)
		}
		total = n
		copy(table[(part-1)*core.ChunkSize:], payload[:size])
		seen |= 1 << uint(part-1)
	}
	return table, nil
}

func countBits(v uint32) int {
	n := 0
	for ; v != 0; v &= v - 1 {
		n++
	}
	return n
}

// PushColors writes a whole color table. The device does not acknowledge
// parts; pull the table back to confirm.
func (c *Client) PushColors(tag uint8, table *ColorTable) error {
	if err := checkColorTag(tag); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	total := len(table) / core.ChunkSize
	var payload [5 + core.ChunkSize]byte
	for part := 1; part <= total; part++ {
		payload[0] = core.BulkPush
		payload[1] = tag
		payload[2] = uint8(part)
		payload[3] = uint8(total)
		payload[4] = core.ChunkSize
		copy(payload[5:], table[(part-1)*core.ChunkSize:part*core.ChunkSize])

		if err := c.sendVendor(protocol.CommandBulkTransfer, payload[:]...); err != nil {
			return fmt.Errorf("push colors: part %d: %w", part, err)
		}
	}
	c.log.Debug().Uint8("tag", tag).Int("parts", total).Msg("color table sent")
	return nil
}

// Cell is one realtime color assignment, six bits per channel
type Cell struct {
	Button uint8
	Color  color.RGB
}

// ShowColors sets realtime colors with a flat list message
func (c *Client) ShowColors(cells []Cell) error {
	if len(cells) > color.ButtonCount {
		return fmt.Errorf("show colors: %d cells exceed the grid", len(cells))
	}

	msg := make([]byte, 0, 2+4*len(cells))
	msg = append(msg, protocol.SysExStart, protocol.MarkerFlatList)
	for _, cell := range cells {
		msg = append(msg, cell.Button&color.ButtonMask, cell.Color.R&0x3F, cell.Color.G&0x3F, cell.Color.B&0x3F)
	}
	msg = append(msg, protocol.SysExEnd)

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.send(msg)
}

// Clear turns off every realtime color
func (c *Client) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.send([]byte{protocol.SysExStart, protocol.MarkerClear, protocol.SysExEnd})
}

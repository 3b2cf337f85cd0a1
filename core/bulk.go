package core

import (
	"errors"

	"gridpad/color"
	"gridpad/protocol"
)

// Bulk transfer sub-commands
const (
	BulkPush = 0
	BulkPull = 1
)

// Bulk transfer tags
const (
	TagExtended     = 0 // two-byte tag scheme, not supported
	TagIdleColors   = 1
	TagActiveColors = 2
)

const (
	// ChunkSize is the largest payload of one part
	ChunkSize = 24

	// PartsPerBank is how many parts cover one bank of colors
	PartsPerBank = color.ButtonCount * 3 / ChunkSize

	// MaxParts is the number of parts addressable in the color tables
	MaxParts = Banks * color.ButtonCount * 3 / ChunkSize

	bulkHeaderLen = 5 // SUB TAG PART TOTAL SIZE
)

var (
	ErrShortPayload   = errors.New("payload too short")
	ErrUnsupportedTag = errors.New("unsupported bulk tag")
	ErrInvalidPart    = errors.New("invalid part number")
	ErrSizeOverrun    = errors.New("size exceeds supplied payload")
	ErrUnknownBulk    = errors.New("unknown bulk sub-command")
)

// BulkPart is one decoded push part. Payload aliases the message buffer.
type BulkPart struct {
	Tag     uint8
	Part    uint8
	Total   uint8
	Size    uint8
	Payload []byte
}

// Bank returns the color bank the part addresses
func (p *BulkPart) Bank() uint8 {
	return (p.Part - 1) / PartsPerBank
}

// Offset returns the byte offset of the part within its bank
func (p *BulkPart) Offset() Address {
	return Address((p.Part-1)%PartsPerBank) * ChunkSize
}

// tableBase maps a bulk tag to its color table
func tableBase(tag uint8) (Address, bool) {
	switch tag {
	case TagIdleColors:
		return AddrColorsIdle, true
	case TagActiveColors:
		return AddrColorsActive, true
	default:
		return 0, false
	}
}

// DecodeBulkPart validates a push payload (starting at SUB). Nothing is
// written for a part that fails validation.
func DecodeBulkPart(payload []byte) (BulkPart, error) {
	if len(payload) < bulkHeaderLen {
		return BulkPart{}, ErrShortPayload
	}
	p := BulkPart{
		Tag:   payload[1],
		Part:  payload[2],
		Total: payload[3],
		Size:  payload[4],
	}
	if _, ok := tableBase(p.Tag); !ok {
		return p, ErrUnsupportedTag
	}
	if p.Part == 0 || int(p.Part) > MaxParts {
		return p, ErrInvalidPart
	}
	data := payload[bulkHeaderLen:]
	if int(p.Size) > len(data) || p.Size > ChunkSize {
		return p, ErrSizeOverrun
	}
	p.Payload = data[:p.Size]
	return p, nil
}

func limiterFor(tag uint8) *color.PowerLimiter {
	if tag == TagActiveColors {
		return &color.ActiveLimiter
	}
	return &color.IdleLimiter
}

// StoreBulkPart writes the complete triplets of a part, each rescaled and
// power limited. A trailing partial triplet is ignored.
func StoreBulkPart(st Store, p *BulkPart) {
	base, _ := tableBase(p.Tag)
	addr := base + Address(p.Bank())*color.ButtonCount*3 + p.Offset()
	lim := limiterFor(p.Tag)

	for i := 0; i+2 < len(p.Payload); i += 3 {
		c := lim.Limit(color.WireToInternal(p.Payload[i], p.Payload[i+1], p.Payload[i+2]))
		a := addr + Address(i)
		st.Put(a, c.R)
		st.Put(a+1, c.G)
		st.Put(a+2, c.B)
	}
}

// PullParts returns the number of messages a pull emits
func PullParts() int {
	return (ColorTableSize + ChunkSize - 1) / ChunkSize
}

// StreamColorTable sends a whole color table as ascending push parts,
// each byte scaled to wire range
func StreamColorTable(st Store, tag uint8, out *protocol.ScratchOutput, w protocol.PacketWriter) error {
	base, ok := tableBase(tag)
	if !ok {
		return ErrUnsupportedTag
	}

	total := PullParts()
	remaining := ColorTableSize
	src := base
	var body [bulkHeaderLen + ChunkSize]byte

	for part := 1; part <= total; part++ {
		size := remaining
		if size > ChunkSize {
			size = ChunkSize
		}
		remaining -= size

		body[0], body[1], body[2], body[3], body[4] = BulkPush, tag, uint8(part), uint8(total), uint8(size)
		for i := 0; i < size; i++ {
			body[bulkHeaderLen+i] = color.InternalToWire(st.Get(src))
			src++
		}

		msg, err := protocol.VendorMessage(out, protocol.CommandBulkTransfer, body[:bulkHeaderLen+size]...)
		if err != nil {
			return err
		}
		if err := protocol.StreamSysEx(w, msg); err != nil {
			return err
		}
	}
	return nil
}

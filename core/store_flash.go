package core

import (
	"errors"

	"gridpad/protocol"
)

// BlockDevice is raw flash with erase-before-write semantics, as provided
// by machine.Flash on RP2040 targets
type BlockDevice interface {
	ReadAt(p []byte, off int64) (int, error)
	WriteAt(p []byte, off int64) (int, error)
	EraseBlockSize() int64
	EraseBlocks(start, length int64) error
}

var (
	ErrStoreCorrupt = errors.New("settings image checksum mismatch")
	ErrShortIO      = errors.New("short flash transfer")
)

// flashImageSize covers the store plus its CRC trailer, padded to the
// flash page size
const flashImageSize = StoreSize + 256

// FlashStore caches the settings image in RAM and writes it back to a
// BlockDevice on Flush. Put only dirties the cache.
type FlashStore struct {
	dev   BlockDevice
	cache *MemoryStore
	image [flashImageSize]byte
	dirty bool
}

// NewFlashStore creates a store over dev; call Load before use
func NewFlashStore(dev BlockDevice) *FlashStore {
	return &FlashStore{dev: dev, cache: NewMemoryStore()}
}

// Load reads the image from flash. A checksum mismatch leaves the cache
// erased so the layout version check triggers a factory reset.
func (f *FlashStore) Load() error {
	n, err := f.dev.ReadAt(f.image[:], 0)
	if err != nil {
		return err
	}
	if n != len(f.image) {
		return ErrShortIO
	}

	want := uint16(f.image[StoreSize]) | uint16(f.image[StoreSize+1])<<8
	if protocol.CRC16(f.image[:StoreSize]) != want {
		f.cache.Erase()
		return ErrStoreCorrupt
	}
	copy(f.cache.Bytes(), f.image[:StoreSize])
	f.dirty = false
	return nil
}

// Get implements Store
func (f *FlashStore) Get(addr Address) uint8 {
	return f.cache.Get(addr)
}

// Put implements Store
func (f *FlashStore) Put(addr Address, v uint8) {
	if f.cache.Get(addr) == v {
		return
	}
	f.cache.Put(addr, v)
	f.dirty = true
}

// Dirty reports whether the cache has unflushed writes
func (f *FlashStore) Dirty() bool {
	return f.dirty
}

// Flush erases the image blocks and writes the cache back
func (f *FlashStore) Flush() error {
	if !f.dirty {
		return nil
	}

	for i := range f.image {
		f.image[i] = erased
	}
	copy(f.image[:StoreSize], f.cache.Bytes())
	crc := protocol.CRC16(f.image[:StoreSize])
	f.image[StoreSize] = uint8(crc)
	f.image[StoreSize+1] = uint8(crc >> 8)

	bs := f.dev.EraseBlockSize()
	blocks := (int64(len(f.image)) + bs - 1) / bs
	if err := f.dev.EraseBlocks(0, blocks); err != nil {
		return err
	}
	n, err := f.dev.WriteAt(f.image[:], 0)
	if err != nil {
		return err
	}
	if n != len(f.image) {
		return ErrShortIO
	}

	f.dirty = false
	RecordEvent(EvtStoreFlushed, 0, uint32(crc))
	return nil
}

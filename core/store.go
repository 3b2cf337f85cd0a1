package core

// Address is a byte offset into the settings store
type Address uint16

// Store is byte-addressed persistent storage. Each access is a single
// byte with no transactions; consistency comes from reading back.
type Store interface {
	Get(addr Address) uint8
	Put(addr Address, v uint8)
}

// erased is what unwritten storage reads as
const erased = 0xFF

// MemoryStore is a RAM-backed Store. Out of range writes are dropped and
// out of range reads return the erased value.
type MemoryStore struct {
	data   [StoreSize]byte
	writes uint32
}

// NewMemoryStore returns a store in the erased state
func NewMemoryStore() *MemoryStore {
	m := &MemoryStore{}
	m.Erase()
	return m
}

// Get implements Store
func (m *MemoryStore) Get(addr Address) uint8 {
	if int(addr) >= len(m.data) {
		return erased
	}
	return m.data[addr]
}

// Put implements Store
func (m *MemoryStore) Put(addr Address, v uint8) {
	if int(addr) >= len(m.data) {
		return
	}
	m.data[addr] = v
	m.writes++
}

// Erase sets every byte to the erased value
func (m *MemoryStore) Erase() {
	for i := range m.data {
		m.data[i] = erased
	}
}

// Writes returns the number of accepted writes
func (m *MemoryStore) Writes() uint32 {
	return m.writes
}

// Bytes exposes the backing image
func (m *MemoryStore) Bytes() []byte {
	return m.data[:]
}

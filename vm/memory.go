package vm

import (
	"bufio"
	"io"
	"os"
)

// Quad is a 128-bit value held as four little-endian 32-bit limbs.
// Low is the least significant limb.
type Quad struct {
	Low, MidLow, MidHigh, High uint32
}

// Equal reports full 128-bit equality across all four limbs.
func (q Quad) Equal(other Quad) bool {
	return q.Low == other.Low && q.MidLow == other.MidLow &&
		q.MidHigh == other.MidHigh && q.High == other.High
}

// IsZero reports whether every limb is zero.
func (q Quad) IsZero() bool {
	return q.Low == 0 && q.MidLow == 0 && q.MidHigh == 0 && q.High == 0
}

// Memory is the single linear, bounds-checked byte array shared by
// both machine variants, with a memory-mapped console window. There
// are no segments or permissions: every address in [0, MemorySize) is
// readable and writable, matching the flat model described for
// AURORA's memory subsystem.
type Memory struct {
	bytes   []byte
	Console *bufio.Writer
}

// NewMemory allocates a zeroed address space of MemorySize bytes with
// the console wired to stdout.
func NewMemory() *Memory {
	return &Memory{
		bytes:   make([]byte, MemorySize),
		Console: bufio.NewWriter(os.Stdout),
	}
}

// NewMemoryWithConsole allocates memory whose console output is
// redirected to w, used by tests to capture MMIO writes without
// touching the real stdout.
func NewMemoryWithConsole(w io.Writer) *Memory {
	return &Memory{
		bytes:   make([]byte, MemorySize),
		Console: bufio.NewWriter(w),
	}
}

// inBounds reports whether [addr, addr+size) lies entirely within the
// address space.
func (m *Memory) inBounds(addr uint32, size uint32) bool {
	if size == 0 {
		return addr < uint32(len(m.bytes))
	}
	end := uint64(addr) + uint64(size)
	return end <= uint64(len(m.bytes))
}

// inScreenWindow reports whether any byte of [addr, addr+size)
// intersects the console window.
func inScreenWindow(addr uint32, size uint32) bool {
	winEnd := uint64(ScreenBase) + uint64(ScreenSize)
	accEnd := uint64(addr) + uint64(size)
	return uint64(addr) < winEnd && accEnd > uint64(ScreenBase)
}

// emitConsoleByte writes a single byte to the console and flushes
// immediately, per the spec's "emit and flush" MMIO rule.
func (m *Memory) emitConsoleByte(b byte) {
	m.Console.WriteByte(b)
	m.Console.Flush()
}

// ReadByte reads a single byte, bounds-checked.
func (m *Memory) ReadByte(addr uint32) (byte, error) {
	if !m.inBounds(addr, 1) {
		return 0, &MemoryFault{Kind: FaultRead, Address: addr}
	}
	return m.bytes[addr], nil
}

// WriteByte writes a single byte, bounds-checked, emitting to the
// console if addr falls in the screen window.
func (m *Memory) WriteByte(addr uint32, value byte) error {
	if !m.inBounds(addr, 1) {
		return &MemoryFault{Kind: FaultWrite, Address: addr}
	}
	m.bytes[addr] = value
	if inScreenWindow(addr, 1) {
		m.emitConsoleByte(value)
	}
	return nil
}

// Read32 reads four consecutive little-endian bytes starting at addr.
func (m *Memory) Read32(addr uint32) (uint32, error) {
	if !m.inBounds(addr, 4) {
		return 0, &MemoryFault{Kind: FaultRead, Address: addr}
	}
	b := m.bytes[addr : addr+4]
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

// Write32 writes a 32-bit word as four little-endian bytes. If any
// byte of the destination range intersects the console window, the
// low byte of word is emitted once.
func (m *Memory) Write32(addr uint32, word uint32) error {
	if !m.inBounds(addr, 4) {
		return &MemoryFault{Kind: FaultWrite, Address: addr}
	}
	b := m.bytes[addr : addr+4]
	b[0] = byte(word)
	b[1] = byte(word >> 8)
	b[2] = byte(word >> 16)
	b[3] = byte(word >> 24)
	if inScreenWindow(addr, 4) {
		m.emitConsoleByte(byte(word))
	}
	return nil
}

// Read128 reads a 16-byte quadword starting at addr; Low is the
// lowest-addressed limb.
func (m *Memory) Read128(addr uint32) (Quad, error) {
	if !m.inBounds(addr, 16) {
		return Quad{}, &MemoryFault{Kind: FaultRead, Address: addr}
	}
	low, _ := m.Read32(addr)
	midLow, _ := m.Read32(addr + 4)
	midHigh, _ := m.Read32(addr + 8)
	high, _ := m.Read32(addr + 12)
	return Quad{Low: low, MidLow: midLow, MidHigh: midHigh, High: high}, nil
}

// Write128 writes a 16-byte quadword starting at addr. A console
// intersection emits the low byte of the Low limb, matching the
// 32-bit Write32 MMIO rule applied to the lowest-addressed word.
func (m *Memory) Write128(addr uint32, q Quad) error {
	if !m.inBounds(addr, 16) {
		return &MemoryFault{Kind: FaultWrite, Address: addr}
	}
	for i, limb := range [4]uint32{q.Low, q.MidLow, q.MidHigh, q.High} {
		b := m.bytes[addr+uint32(i)*4 : addr+uint32(i)*4+4]
		b[0] = byte(limb)
		b[1] = byte(limb >> 8)
		b[2] = byte(limb >> 16)
		b[3] = byte(limb >> 24)
	}
	if inScreenWindow(addr, 16) {
		m.emitConsoleByte(byte(q.Low))
	}
	return nil
}

// LoadImage copies data into memory starting at base, clamping the
// copy length to the remaining address space (the loader's contract:
// spec §4.J).
func (m *Memory) LoadImage(base uint32, data []byte) {
	if base >= uint32(len(m.bytes)) {
		return
	}
	room := uint32(len(m.bytes)) - base
	n := uint32(len(data))
	if n > room {
		n = room
	}
	copy(m.bytes[base:base+n], data[:n])
}

// Size returns the address space size in bytes.
func (m *Memory) Size() uint32 {
	return uint32(len(m.bytes))
}

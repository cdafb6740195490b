package shmem

import (
	"encoding/binary"
	"unsafe"
)

// RawView is a mutable, unchecked window over size bytes starting at
// addr. It holds no resources and enforces no exclusivity: any number
// of views may alias the same bytes, in this process or another.
//
// A view is valid exactly as long as the memory behind it stays
// allocated and unmoved. Nothing here can verify that.
type RawView struct {
	addr uintptr
	size int
}

// NewRawView builds a view over size bytes at addr.
//
// Precondition: addr points at readable, writable memory of at least
// size bytes, kept alive and in place for the lifetime of the view.
// A dangling or short address is not detectable here and leads to
// undefined behavior on access.
func NewRawView(addr uintptr, size int) (RawView, error) {
	if addr == 0 || size < 0 {
		return RawView{}, ErrInvalidArgument
	}
	return RawView{addr: addr, size: size}, nil
}

func (v RawView) Addr() uintptr { return v.addr }

func (v RawView) Size() int { return v.size }

// Bytes exposes the viewed memory as a byte slice. No copy is taken;
// writes land directly in the shared bytes.
func (v RawView) Bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v.addr)), v.size)
}

func (v RawView) Byte(offset int) byte {
	return v.Bytes()[offset]
}

func (v RawView) SetByte(offset int, b byte) {
	v.Bytes()[offset] = b
}

func (v RawView) Uint32(offset int) uint32 {
	return binary.LittleEndian.Uint32(v.Bytes()[offset:])
}

func (v RawView) PutUint32(offset int, value uint32) {
	binary.LittleEndian.PutUint32(v.Bytes()[offset:], value)
}

// Read copies n bytes starting at offset out of the view.
func (v RawView) Read(offset int, n int) []byte {
	out := make([]byte, n)
	copy(out, v.Bytes()[offset:offset+n])
	return out
}

// Write copies src into the view starting at offset.
func (v RawView) Write(offset int, src []byte) {
	copy(v.Bytes()[offset:], src)
}

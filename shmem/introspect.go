package shmem

import "unsafe"

// AddressAndSize returns the address and length of buf's backing
// array, suitable as input to NewRawView in any context that can reach
// the same memory. No copy is taken.
//
// Handing the address out functionally revokes the safety guarantees
// the slice would otherwise give: the caller must keep the backing
// array allocated, unmoved and un-resized for as long as any party,
// in any context, uses the returned pair.
func AddressAndSize(buf []byte) (uintptr, int, error) {
	p := unsafe.SliceData(buf)
	if p == nil {
		return 0, 0, ErrInvalidArgument
	}
	return uintptr(unsafe.Pointer(p)), len(buf), nil
}

package shmem

import (
	"unsafe"

	// Holding object addresses as raw integers is only sound while the
	// runtime does not move heap objects. This import turns that
	// assumption into a build/run-time assertion.
	_ "go4.org/unsafe/assume-no-moving-gc"
)

// Resurrect reconstructs a strong reference to the object at addr in
// the current process's heap, bypassing normal reference acquisition.
//
// THIS IS THE MOST DANGEROUS OPERATION IN THE MODULE. It is not part
// of the shared-region data path; it exists only so bootstrap code can
// re-attach to an object whose address was communicated out-of-band
// while some other owner is guaranteed, by protocol, to still hold it
// (for example, a sender that keeps its reference until acknowledged).
//
// Precondition, unverifiable here: addr currently holds a live T of
// this process. The returned pointer keeps the object alive for as
// long as the caller holds it; it does nothing to make a dead object
// live again. Resurrecting a collected or foreign address corrupts the
// heap.
func Resurrect[T any](addr uintptr) (*T, error) {
	if addr == 0 {
		return nil, ErrInvalidArgument
	}
	return (*T)(unsafe.Pointer(addr)), nil
}

// ObjectAddr returns the current address of p's referent, the token a
// cooperating context feeds back into Resurrect. The address is only
// meaningful inside this process, and only while some owner keeps the
// object alive.
func ObjectAddr[T any](p *T) (uintptr, error) {
	if p == nil {
		return 0, ErrInvalidArgument
	}
	return uintptr(unsafe.Pointer(p)), nil
}

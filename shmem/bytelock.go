package shmem

import (
	"sync/atomic"
	"unsafe"
)

// Detected once; the byte lane shift inside an aligned word differs
// between little- and big-endian targets.
var bigEndian = func() bool {
	x := uint16(1)
	return *(*byte)(unsafe.Pointer(&x)) == 0
}()

// TryLockByte attempts to atomically move the byte at addr from 0 to
// 1, with sequential consistency. It returns true if this caller won
// the transition, false if the byte was already non-zero. At most one
// of any number of racing callers observes true.
//
// There is no blocking, no queueing and no unlock primitive: the owner
// releases by storing 0 through a RawView (a plain write; only the
// owner writes it).
//
// sync/atomic has no single-byte compare-and-swap, so the transition
// is a CAS loop on the aligned 32-bit word containing addr that only
// alters the target byte lane. Precondition beyond addr being valid
// writable memory: while callers race on this byte, the other bytes of
// its aligned word are written only under the lock (true for the usual
// layout of lock byte at offset 0, payload behind it).
func TryLockByte(addr uintptr) (bool, error) {
	if addr == 0 {
		return false, ErrInvalidArgument
	}

	word := (*uint32)(unsafe.Pointer(addr &^ 3))
	shift := (addr & 3) * 8
	if bigEndian {
		shift = 24 - shift
	}
	mask := uint32(0xFF) << shift

	for {
		old := atomic.LoadUint32(word)
		if old&mask != 0 {
			return false, nil
		}
		if atomic.CompareAndSwapUint32(word, old, old|1<<shift) {
			return true, nil
		}
		// CAS lost to traffic on a neighbouring lane; the target
		// byte may still be 0, so reload and retry.
	}
}

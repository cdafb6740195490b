package shmem

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Walks the whole sharing protocol inside one process: context A owns
// a 64-byte region and introspects it, context B (a goroutine with no
// access to A's slice, only the raw pair) views it, takes the lock
// byte, deposits a payload and releases. The pair travels over a side
// channel, as it would between real processes.
func TestBoardEndToEnd(t *testing.T) {
	const payload = uint32(0xfeedface)

	regionBuf := make([]byte, 64)
	regionBuf[0] = 0 // lock byte

	type pair struct {
		addr uintptr
		size int
	}
	side := make(chan pair, 1)
	done := make(chan struct{})

	addr, size, err := AddressAndSize(regionBuf)
	assert.NoError(t, err)
	side <- pair{addr, size}

	go func() {
		defer close(done)
		p := <-side

		view, err := NewRawView(p.addr, p.size)
		if err != nil {
			t.Error(err)
			return
		}
		for {
			ok, err := TryLockByte(p.addr)
			if err != nil {
				t.Error(err)
				return
			}
			if ok {
				break
			}
		}
		view.PutUint32(1, payload)
		view.SetByte(0, 0)
	}()

	<-done
	assert.Equal(t, byte(0), regionBuf[0], "lock byte released")

	viewA, err := NewRawView(addr, size)
	assert.NoError(t, err)
	assert.Equal(t, payload, viewA.Uint32(1))

	// The lock still works after the exchange.
	ok, err := TryLockByte(addr)
	assert.NoError(t, err)
	assert.True(t, ok)

	runtime.KeepAlive(regionBuf)
}

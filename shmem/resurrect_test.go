package shmem

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

type testObject struct {
	ID   int64
	Data [64]byte
}

func TestResurrectIdentity(t *testing.T) {
	obj := &testObject{ID: 42}
	obj.Data[0] = 0xaa

	addr, err := ObjectAddr(obj)
	assert.NoError(t, err)
	assert.NotEqual(t, uintptr(0), addr)

	got, err := Resurrect[testObject](addr)
	assert.NoError(t, err)
	assert.True(t, got == obj, "resurrected reference must be the same object")
	assert.Equal(t, int64(42), got.ID)

	runtime.KeepAlive(obj)
}

func TestResurrectKeepsObjectAlive(t *testing.T) {
	obj := &testObject{ID: 7}
	addr, err := ObjectAddr(obj)
	assert.NoError(t, err)

	got, err := Resurrect[testObject](addr)
	assert.NoError(t, err)
	// The sender's reference covers the handoff; from here the
	// resurrected pointer is the only owner.
	runtime.KeepAlive(obj)

	runtime.GC()
	runtime.GC()
	assert.Equal(t, int64(7), got.ID)
}

func TestResurrectInvalidArgument(t *testing.T) {
	_, err := Resurrect[testObject](0)
	assert.Equal(t, ErrInvalidArgument, err)

	_, err = ObjectAddr[testObject](nil)
	assert.Equal(t, ErrInvalidArgument, err)
}

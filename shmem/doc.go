// Package shmem provides the raw primitives for sharing a span of
// memory between execution contexts that do not share an object heap:
// separate processes mapping the same file, or interpreter instances
// exchanging a (address, size) pair over a side channel.
//
// Everything here is deliberately unchecked past construction time.
// The package never validates that an address is safe to dereference,
// never tracks how long a view stays valid, and never arbitrates
// ownership of the shared bytes. Those invariants belong to the caller
// and are stated as preconditions on each operation. Violating a
// precondition is undefined behavior: typically a segfault, at worst
// silent corruption.
//
// The four operations compose into one capability: introspect a buffer
// you own into (addr, size), hand the pair to another context, let it
// build a RawView over the same bytes, and coordinate access through a
// single lock byte inside the region with TryLockByte. Resurrect sits
// outside that data path and exists only for context-local bootstrap.
package shmem

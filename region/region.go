//go:build unix

// Package region allocates the shared spans of memory that the shmem
// primitives operate on. The primitives themselves never allocate;
// whoever creates a region owns its lifetime and must keep it mapped
// for as long as any view, in any process, addresses it.
//
// Anonymous regions serve a single process (tests, intra-process
// coordination). File-backed regions are mapped MAP_SHARED so that
// independent processes opening the same path see the same bytes.
package region

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"memboard/shmem"
)

var (
	ErrInvalidSize = errors.New("region: size must be positive")
	ErrClosed      = errors.New("region: closed")
)

// Region is a mapped span of shareable bytes.
type Region struct {
	data []byte
	fd   int
	name string
}

// AllocAnonymous maps size zero-filled bytes, not backed by any file.
func AllocAnonymous(size int) (*Region, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	data, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("region: mmap anonymous: %w", err)
	}
	return &Region{data: data, fd: -1}, nil
}

// CreateFile creates (or truncates) the file at path, extends it to
// size bytes and maps it MAP_SHARED. Other processes reach the same
// bytes through OpenFile on the same path.
func CreateFile(path string, size int) (*Region, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	fd, err := unix.Open(path, unix.O_CREAT|unix.O_RDWR|unix.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("region: open %s: %w", path, err)
	}
	if err = unix.Ftruncate(fd, int64(size)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("region: truncate %s: %w", path, err)
	}
	return mapFd(fd, path, size)
}

// OpenFile maps an existing backing file MAP_SHARED, using the file's
// current size.
func OpenFile(path string) (*Region, error) {
	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("region: open %s: %w", path, err)
	}
	var st unix.Stat_t
	if err = unix.Fstat(fd, &st); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("region: stat %s: %w", path, err)
	}
	if st.Size <= 0 {
		unix.Close(fd)
		return nil, ErrInvalidSize
	}
	return mapFd(fd, path, int(st.Size))
}

func mapFd(fd int, path string, size int) (*Region, error) {
	data, err := unix.Mmap(fd, 0, size,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("region: mmap %s: %w", path, err)
	}
	return &Region{data: data, fd: fd, name: path}, nil
}

// Bytes is the mapped span. Writes are visible to every mapping of the
// same backing store.
func (p *Region) Bytes() []byte { return p.data }

func (p *Region) Size() int { return len(p.data) }

// Name is the backing file path, empty for anonymous regions.
func (p *Region) Name() string { return p.name }

// AddressAndSize introspects the mapping for handing to another
// context. The pair dangles the moment Close is called; coordinating
// that is the caller's protocol, not this package's.
func (p *Region) AddressAndSize() (uintptr, int, error) {
	if p.data == nil {
		return 0, 0, ErrClosed
	}
	return shmem.AddressAndSize(p.data)
}

// Close unmaps the region and closes the backing fd. Every address
// previously derived from this region becomes invalid in this process;
// other processes' mappings are unaffected.
func (p *Region) Close() error {
	if p.data == nil {
		return ErrClosed
	}
	err := unix.Munmap(p.data)
	p.data = nil
	if p.fd >= 0 {
		if cerr := unix.Close(p.fd); err == nil {
			err = cerr
		}
		p.fd = -1
	}
	return err
}

// Remove deletes the backing file, for the creating side's teardown.
func (p *Region) Remove() error {
	if p.name == "" {
		return nil
	}
	return os.Remove(p.name)
}

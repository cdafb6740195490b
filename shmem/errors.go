package shmem

import "errors"

var (
	ErrInvalidArgument = errors.New("shmem: invalid argument")
)

package memfs

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	ErrNotExist		= fmt.Errorf("memfs: %w", fs.ErrNotExist)
	ErrExist		= fmt.Errorf("memfs: %w", fs.ErrExist)
	ErrPermission	= fmt.Errorf("memfs: %w", fs.ErrPermission)
	ErrInvalidArg	= fmt.Errorf("memfs: %w", fs.ErrInvalid)
	ErrIsDir		= errors.New("memfs: is a directory")
	ErrNotDir		= errors.New("memfs: not a directory")
	ErrNotEmpty		= errors.New("memfs: directory not empty")
	ErrBadFD		= errors.New("memfs: bad file descriptor")
	ErrNoFD			= errors.New("memfs: out of file descriptors")
	ErrChecksum		= errors.New("memfs: block checksum mismatch")
	ErrFileTooLarge	= errors.New("memfs: file too large")
	ErrBusy			= errors.New("memfs: directory in use")
)

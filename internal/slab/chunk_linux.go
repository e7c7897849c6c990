//go:build linux

package slab

import (
	"log/slog"

	"golang.org/x/sys/unix"
)

const MMAP_MODE = unix.MAP_ANON  | unix.MAP_PRIVATE
const MMAP_PROT = unix.PROT_READ | unix.PROT_WRITE

// Page aligned, zero filled by the kernel.
func mapChunk(size int) ([]byte, error) {
	raw, err := unix.Mmap(-1, 0, size, MMAP_PROT, MMAP_MODE)
	if err != nil {
		slog.Error("mapChunk", "size", size, "err", err)
	}
	return raw, err
}

func unmapChunk(raw []byte) error {
	err := unix.Munmap(raw)
	if err != nil {
		slog.Error("unmapChunk", "err", err)
	}
	return err
}

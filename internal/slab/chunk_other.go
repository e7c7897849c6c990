//go:build !linux

package slab

import "errors"

func mapChunk(size int) ([]byte, error) {
	return nil, errors.ErrUnsupported
}

func unmapChunk(raw []byte) error {
	return errors.ErrUnsupported
}

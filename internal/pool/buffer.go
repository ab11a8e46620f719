// Package pool recycles the byte buffers dumps are rendered into.
package pool

import (
	"math/bits"
	"sync"
)

type (
	buffer struct {
		bytes []byte
	}
)

var (
	buffers [shard]sync.Pool
)

const (
	shard = 16
	shift = 10
	Min   = 1 << shift
)

// class returns the size class holding buffers of at least size bytes.
func class(size int) int {
	div, rem := size>>shift, size&(Min-1)
	idx := bits.Len(uint(div))
	if div != 0 && rem == 0 {
		idx--
	}
	return idx
}

// Get returns an empty buffer with room for at least size bytes.
func Get(size int) []byte {
	if size < Min {
		size = Min
	}
	idx := class(size)
	if idx < shard {
		if in := buffers[idx].Get(); in != nil {
			bytes := in.(*buffer).bytes
			if cap(bytes) >= size {
				return bytes[:0]
			}
		}
	}
	return make([]byte, 0, size)
}

// Put hands bytes back for reuse. Buffers above the largest class are
// dropped.
func Put(bytes []byte) {
	idx := class(cap(bytes))
	if cap(bytes) < Min || idx >= shard {
		return
	}
	// a buffer in class idx must satisfy every Get of that class.
	if cap(bytes) < Min<<idx && idx > 0 {
		idx--
	}
	buffers[idx].Put(&buffer{bytes: bytes[:0]})
}

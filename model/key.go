package model

import (
	"sync"
	"unsafe"

	"github.com/zeebo/xxh3"
)

// Key is the hashed form of a computed cache id: a 64 bit map key plus the
// 128 bit digest used to tell collisions apart.
type Key struct {
	v  uint64
	hi uint64
	lo uint64
}

var hasherPool = sync.Pool{New: func() any { return xxh3.New() }}

func NewKey(id string) *Key {
	return buildKey(unsafe.Slice(unsafe.StringData(id), len(id)))
}

func (k *Key) Value() uint64 {
	return k.v
}

func (k *Key) IsTheSame(key *Key) (same bool) {
	if k == nil || key == nil {
		return k == key
	}
	return k.v == key.v && k.hi == key.hi && k.lo == key.lo
}

func buildKey(id []byte) *Key {
	hasher := hasherPool.Get().(*xxh3.Hasher)
	hasher.Reset()

	_, _ = hasher.Write(id)
	u128 := hasher.Sum128()

	k := &Key{
		v:  hasher.Sum64(),
		hi: u128.Hi,
		lo: u128.Lo,
	}

	hasherPool.Put(hasher)
	return k
}

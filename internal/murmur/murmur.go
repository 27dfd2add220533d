// Package murmur implements MurmurHash64A, Austin Appleby's 64-bit hash
// variant. This is the classic two-arg (data, seed) hash, not murmur3;
// the two are not bit-compatible, and sketches hashed with one cannot be
// meaningfully merged with sketches hashed with the other.
package murmur

import "encoding/binary"

const (
	m = 0xc6a4a7935bd1e995
	r = 47
)

// Sum64 returns the MurmurHash64A digest of data, seeded with seed.
func Sum64(data []byte, seed uint64) uint64 {
	h := seed ^ (uint64(len(data)) * m)

	for len(data) >= 8 {
		k := binary.LittleEndian.Uint64(data)

		k *= m
		k ^= k >> r
		k *= m

		h ^= k
		h *= m

		data = data[8:]
	}

	switch len(data) {
	case 7:
		h ^= uint64(data[6]) << 48
		fallthrough
	case 6:
		h ^= uint64(data[5]) << 40
		fallthrough
	case 5:
		h ^= uint64(data[4]) << 32
		fallthrough
	case 4:
		h ^= uint64(data[3]) << 24
		fallthrough
	case 3:
		h ^= uint64(data[2]) << 16
		fallthrough
	case 2:
		h ^= uint64(data[1]) << 8
		fallthrough
	case 1:
		h ^= uint64(data[0])
		h *= m
	}

	h ^= h >> r
	h *= m
	h ^= h >> r

	return h
}

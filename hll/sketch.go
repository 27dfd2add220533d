// Package hll implements a HyperLogLog cardinality estimator: a
// probabilistic data structure that estimates the number of distinct
// elements added to it using sub-linear memory.
//
// A Sketch starts in one of two representations. In sparse mode, non-zero
// registers live in an ordered linked list with a small insertion buffer
// that absorbs bursts of Add calls; once the list reaches its cap the
// sketch is irreversibly promoted to a dense, 6-bit-per-register
// bit-packed array. Cardinality is read off a 65-bucket rank histogram
// maintained incrementally on every mutation, so Cardinality runs in time
// independent of the register count.
//
// A Sketch is not safe for concurrent use. Callers that need concurrent
// updates should either serialize access with their own mutex or shard
// into per-goroutine sketches and Merge them at a boundary.
package hll

import "github.com/dnxjcui/hyperanf/internal/murmur"

// Config configures a new Sketch. The zero value for MaxListSize and
// MaxBufferSize selects size-appropriate defaults.
type Config struct {
	// P is log2 of the register count (m = 1<<P). Recommended range
	// [4, 18]; accepted up to 25.
	P uint8

	// Seed is the MurmurHash64A seed. Two sketches are only mergeable if
	// their seeds match; this is the caller's responsibility to ensure.
	Seed uint64

	// Sparse starts the sketch in the memory-efficient sparse
	// representation. Once promoted to dense it never reverts.
	Sparse bool

	// MaxListSize caps the sparse list before promotion to dense. 0
	// selects a default derived from m.
	MaxListSize uint64

	// MaxBufferSize caps the sparse insertion buffer before a flush. 0
	// selects a default derived from MaxListSize.
	MaxBufferSize uint64
}

// Sketch is a single HyperLogLog cardinality estimator.
type Sketch struct {
	p    uint8
	m    uint64
	seed uint64

	sparse  bool
	dense   []byte
	sparseS *sparseStore

	hist histogram

	added uint64

	cache      uint64
	cacheValid bool
}

func defaultMaxListSize(m uint64) uint64 {
	d := m / 4
	switch {
	case d > (1 << 20):
		return 1 << 20
	case d <= 4:
		return 2
	default:
		return d
	}
}

func defaultMaxBufferSize(maxListSize uint64) uint64 {
	d := maxListSize / 2
	if d > 200000 {
		return 200000
	}
	return d
}

// New creates a Sketch per cfg. It fails with ErrAllocFailed if P is
// outside the valid range.
func New(cfg Config) (*Sketch, error) {
	if cfg.P < 4 || cfg.P > 25 {
		return nil, ErrAllocFailed
	}

	m := uint64(1) << cfg.P

	s := &Sketch{
		p:    cfg.P,
		m:    m,
		seed: cfg.Seed,
		hist: newHistogram(m),
	}

	if cfg.Sparse {
		maxListSize := cfg.MaxListSize
		if maxListSize == 0 {
			maxListSize = defaultMaxListSize(m)
		}

		maxBufferSize := cfg.MaxBufferSize
		if maxBufferSize == 0 {
			maxBufferSize = defaultMaxBufferSize(maxListSize)
		}

		s.sparse = true
		s.sparseS = newSparseStore(maxListSize, maxBufferSize)
	} else {
		s.dense = make([]byte, denseSize(m))
	}

	return s, nil
}

// Add hashes data and records it in the sketch. It returns true iff the
// observed register strictly increased.
//
// In sparse mode, Add always returns true for a successfully buffered
// insertion: whether the register actually changes is only known once
// the buffer is flushed. Callers must not treat this return value as a
// strict novelty indicator in sparse mode.
func (s *Sketch) Add(data []byte) bool {
	h := murmur.Sum64(data, s.seed)
	index, rank := deriveIndexAndRank(h, s.p)

	s.added++
	s.cacheValid = false

	if s.sparse {
		s.sparseS.insert(index, rank, &s.hist)
		if s.sparseS.listSize >= s.sparseS.maxListSize {
			s.promote()
		}
		return true
	}

	old := getRegister(s.dense, index)
	if rank <= old {
		return false
	}

	setRegister(s.dense, index, rank)
	s.hist.move(old, rank)
	return true
}

// promote irreversibly transitions the sketch from sparse to dense.
func (s *Sketch) promote() {
	dense := make([]byte, denseSize(s.m))

	s.sparseS.flush(&s.hist)
	s.sparseS.forEach(func(index uint64, rank uint8) {
		setRegister(dense, index, rank)
	})

	s.sparseS.release()
	s.sparseS = nil
	s.dense = dense
	s.sparse = false
}

// Cardinality returns the estimated number of distinct elements added.
// The result is memoized until the next mutating call.
func (s *Sketch) Cardinality() uint64 {
	if s.cacheValid {
		return s.cache
	}

	if s.sparse {
		s.sparseS.flush(&s.hist)
	}

	est := estimateCardinality(&s.hist, s.m, s.p)
	s.cache = est
	s.cacheValid = true

	return est
}

// registerAt dispatches to the dense or sparse getter without the
// bounds check GetRegister performs at the public boundary.
func (s *Sketch) registerAt(i uint64) uint8 {
	if s.sparse {
		return s.sparseS.get(i, &s.hist)
	}
	return getRegister(s.dense, i)
}

// setMax sets register i to v if v is larger than its current value,
// dispatching on representation and handling mid-merge promotion.
func (s *Sketch) setMax(i uint64, v uint8) {
	if s.sparse {
		s.sparseS.insert(i, v, &s.hist)
		if s.sparseS.listSize >= s.sparseS.maxListSize {
			s.promote()
		}
		return
	}

	old := getRegister(s.dense, i)
	if v > old {
		setRegister(s.dense, i, v)
		s.hist.move(old, v)
	}
}

// Merge merges src's registers into dest, register-wise taking the max
// of each. It requires dest and src to share the same register count;
// otherwise it returns false (ErrIncompatibleSize) and leaves dest
// unmutated. src is never modified.
func (dest *Sketch) Merge(src *Sketch) bool {
	if dest.m != src.m {
		return false
	}

	dest.cacheValid = false

	for i := uint64(0); i < dest.m; i++ {
		srcVal := src.registerAt(i)
		if srcVal == 0 {
			continue
		}
		if srcVal > dest.registerAt(i) {
			dest.setMax(i, srcVal)
		}
	}

	return true
}

// GetRegister returns the current rank of register i, or 0 if i is out
// of range.
func (s *Sketch) GetRegister(i uint64) uint64 {
	if i >= s.m {
		return 0
	}
	return uint64(s.registerAt(i))
}

// Size returns the number of registers (m = 1<<p).
func (s *Sketch) Size() uint64 {
	return s.m
}

// Seed returns the hash seed this sketch was created with.
func (s *Sketch) Seed() uint64 {
	return s.seed
}

// Hash returns the MurmurHash64A of data using this sketch's seed.
func (s *Sketch) Hash(data []byte) uint64 {
	return murmur.Sum64(data, s.seed)
}

// Added returns the number of Add calls observed so far.
func (s *Sketch) Added() uint64 {
	return s.added
}

// Free releases all storage owned by the sketch. The sketch must not be
// used afterward.
func (s *Sketch) Free() {
	s.dense = nil
	if s.sparseS != nil {
		s.sparseS.release()
		s.sparseS = nil
	}
	s.hist = histogram{}
}

package hll

import "sort"

// sparseNode is one entry of the ordered sparse list, strictly ascending
// by index with no duplicate indices. Nodes live in a bump-allocated
// arena (sparseStore.arena) and are addressed by position rather than by
// pointer, per the design note in spec.md §9: this avoids a per-node heap
// allocation on every flush insertion and makes releasing the whole list
// (on promotion or Free) a single slice drop instead of a pointer chase.
type sparseNode struct {
	next  int32 // index into arena, noNode if this is the tail
	index uint64
	rank  uint8
}

const noNode int32 = -1

type sparseEntry struct {
	index uint64
	rank  uint8
}

// sparseStore is the low-fill encoding: an ordered linked list of
// non-zero registers plus an unordered insertion buffer that amortizes
// list maintenance via a sort + merge-advance flush.
type sparseStore struct {
	arena []sparseNode
	head  int32
	cache int32 // last-accessed node, accelerates monotone get() scans

	buffer      []sparseEntry
	bufferCount int

	listSize      uint64
	maxListSize   uint64
	maxBufferSize uint64
}

func newSparseStore(maxListSize, maxBufferSize uint64) *sparseStore {
	return &sparseStore{
		head:          noNode,
		cache:         noNode,
		buffer:        make([]sparseEntry, maxBufferSize),
		maxListSize:   maxListSize,
		maxBufferSize: maxBufferSize,
	}
}

func (s *sparseStore) alloc(index uint64, rank uint8, next int32) int32 {
	s.arena = append(s.arena, sparseNode{next: next, index: index, rank: rank})
	return int32(len(s.arena) - 1)
}

// insert buffers (index, rank) for the next flush, flushing first if the
// buffer is already full.
func (s *sparseStore) insert(index uint64, rank uint8, hist *histogram) {
	if s.bufferCount == len(s.buffer) {
		s.flush(hist)
	}
	s.buffer[s.bufferCount] = sparseEntry{index: index, rank: rank}
	s.bufferCount++
}

// get returns the rank stored for index, or 0 if absent. Flushes the
// buffer first if it is non-empty, then walks the list from the cached
// node when that accelerates a monotone scan, from the head otherwise.
func (s *sparseStore) get(index uint64, hist *histogram) uint8 {
	if s.bufferCount > 0 {
		s.flush(hist)
	}

	cur := s.head
	if s.cache != noNode && s.arena[s.cache].index <= index {
		cur = s.cache
	}

	for cur != noNode {
		n := &s.arena[cur]
		if n.index > index {
			return 0
		}
		if n.index == index {
			s.cache = cur
			return n.rank
		}
		cur = n.next
	}

	return 0
}

// flush sorts the buffer by (index asc, rank asc) and merges it into the
// ordered list in a single advancing pass, resuming from the last node
// touched rather than rescanning from head. O(B log B + L + B) instead of
// the O(B*L) a naive per-insert ordered traversal would cost.
func (s *sparseStore) flush(hist *histogram) {
	if s.bufferCount == 0 {
		return
	}

	buf := s.buffer[:s.bufferCount]
	sort.Slice(buf, func(i, j int) bool {
		if buf[i].index != buf[j].index {
			return buf[i].index < buf[j].index
		}
		return buf[i].rank < buf[j].rank
	})

	prev := noNode

	for _, e := range buf {
		if s.head == noNode {
			n := s.alloc(e.index, e.rank, noNode)
			s.head = n
			hist.move(0, e.rank)
			s.listSize++
			prev = n
			continue
		}

		cur := s.head
		if prev != noNode {
			cur = prev
		}

		for {
			if s.arena[cur].index == e.index {
				if e.rank > s.arena[cur].rank {
					hist.move(s.arena[cur].rank, e.rank)
					s.arena[cur].rank = e.rank
				}
				prev = cur
				break
			}

			if s.arena[cur].index > e.index {
				n := s.alloc(e.index, e.rank, cur)
				s.head = n
				hist.move(0, e.rank)
				s.listSize++
				prev = n
				break
			}

			if s.arena[cur].next == noNode {
				n := s.alloc(e.index, e.rank, noNode)
				s.arena[cur].next = n
				hist.move(0, e.rank)
				s.listSize++
				prev = n
				break
			}

			next := s.arena[cur].next
			if s.arena[next].index > e.index {
				n := s.alloc(e.index, e.rank, next)
				s.arena[cur].next = n
				hist.move(0, e.rank)
				s.listSize++
				prev = n
				break
			}

			cur = next
		}
	}

	s.bufferCount = 0
}

// forEach visits every resident (index, rank) pair in ascending index
// order. Callers must flush first if they need the buffer reflected.
func (s *sparseStore) forEach(f func(index uint64, rank uint8)) {
	for cur := s.head; cur != noNode; cur = s.arena[cur].next {
		f(s.arena[cur].index, s.arena[cur].rank)
	}
}

func (s *sparseStore) release() {
	s.arena = nil
	s.buffer = nil
	s.head = noNode
	s.cache = noNode
	s.bufferCount = 0
	s.listSize = 0
}

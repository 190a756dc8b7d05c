package memory

// DefaultChunkSize is the number of slots allocated at once when a pool grows.
const DefaultChunkSize = 64

type slot[T any] struct {
	value T
	gen   uint32
	live  bool
}

// Pool stores values of T in fixed-size chunks. Growing the pool appends a
// new chunk and never copies existing ones, so pointers returned by Get stay
// valid until the slot is freed.
type Pool[T any] struct {
	chunks    [][]slot[T]
	chunkSize int
	next      int
	free      []uint32
	live      int
}

// NewPool creates a pool allocating chunkSize slots at a time.
// A non-positive chunkSize selects DefaultChunkSize.
func NewPool[T any](chunkSize int) *Pool[T] {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Pool[T]{chunkSize: chunkSize}
}

func (p *Pool[T]) slotAt(index uint32) *slot[T] {
	i := int(index)
	return &p.chunks[i/p.chunkSize][i%p.chunkSize]
}

// Alloc copies v into a free slot and returns its handle and stable address.
func (p *Pool[T]) Alloc(v T) (Handle, *T) {
	var index uint32
	if n := len(p.free); n > 0 {
		index = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		if p.next == len(p.chunks)*p.chunkSize {
			p.chunks = append(p.chunks, make([]slot[T], p.chunkSize))
		}
		index = uint32(p.next)
		p.next++
	}

	s := p.slotAt(index)
	s.value = v
	s.live = true
	if s.gen == 0 {
		s.gen = 1
	}
	p.live++
	return Handle{index: index, gen: s.gen}, &s.value
}

// Get resolves h. It returns false for the nil handle, for handles from
// another pool's range and for slots freed since h was issued.
func (p *Pool[T]) Get(h Handle) (*T, bool) {
	if !h.Valid() || int(h.index) >= p.next {
		return nil, false
	}
	s := p.slotAt(h.index)
	if !s.live || s.gen != h.gen {
		return nil, false
	}
	return &s.value, true
}

// Free releases the slot behind h. The stored value is zeroed so the pool
// does not keep references alive.
func (p *Pool[T]) Free(h Handle) bool {
	if _, ok := p.Get(h); !ok {
		return false
	}
	s := p.slotAt(h.index)
	var zero T
	s.value = zero
	s.live = false
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	p.free = append(p.free, h.index)
	p.live--
	return true
}

// Len returns the number of live values.
func (p *Pool[T]) Len() int {
	return p.live
}

// Cap returns the number of slots allocated so far.
func (p *Pool[T]) Cap() int {
	return len(p.chunks) * p.chunkSize
}

// Each calls fn for every live value in slot order until fn returns false.
func (p *Pool[T]) Each(fn func(Handle, *T) bool) {
	for i := 0; i < p.next; i++ {
		s := p.slotAt(uint32(i))
		if !s.live {
			continue
		}
		if !fn(Handle{index: uint32(i), gen: s.gen}, &s.value) {
			return
		}
	}
}

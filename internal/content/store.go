package content

import (
	"sync"
	"time"
)

// Block is one immutable unit of aggregated study material.
type Block struct {
	ID        int64
	Tag       Tag
	Payload   Payload
	CreatedAt time.Time
}

// Store is the ordered, append-only feed of blocks. Reads return copies, so a
// reader always sees a fully appended snapshot.
type Store struct {
	mu     sync.RWMutex
	blocks []Block
	lastID int64
	clock  func() time.Time
}

type StoreOption func(*Store)

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.clock = now
		}
	}
}

func NewStore(opts ...StoreOption) *Store {
	s := &Store{clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) now() time.Time { return s.clock().UTC() }

// Append adds a block at the end of the feed and returns it.
func (s *Store) Append(tag Tag, payload Payload) Block {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	b := Block{
		ID:        s.lastID,
		Tag:       tag,
		Payload:   payload.clone(),
		CreatedAt: s.now(),
	}
	s.blocks = append(s.blocks, b)
	return copyBlock(b)
}

// All returns the blocks in insertion order.
func (s *Store) All() []Block {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Block, len(s.blocks))
	for i, b := range s.blocks {
		out[i] = copyBlock(b)
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blocks)
}

func (s *Store) Get(id int64) (Block, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	// ids are assigned in order, so the slice is sorted by id
	lo, hi := 0, len(s.blocks)
	for lo < hi {
		mid := (lo + hi) / 2
		if s.blocks[mid].ID < id {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(s.blocks) && s.blocks[lo].ID == id {
		return copyBlock(s.blocks[lo]), true
	}
	return Block{}, false
}

func copyBlock(b Block) Block {
	b.Payload = b.Payload.clone()
	return b
}

package store

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
)

const (
	idPrefix = "ORD-"
	// Ids past this are kept but do not move the sequence.
	maxObserved = math.MaxInt32
)

// Sequence hands out ORD-NNNN identifiers that never repeat within one store:
// every id is one past the highest number seen so far.
type Sequence struct {
	mu   sync.Mutex
	last int
}

// NewSequence starts at ORD-1000 so fresh stores keep four-digit ids.
func NewSequence() *Sequence {
	return &Sequence{last: 999}
}

func (s *Sequence) NextID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last++
	return fmt.Sprintf("%s%04d", idPrefix, s.last)
}

// Observe records an id that already exists. Ids in another format, or with a number
// too large to continue from, are ignored.
func (s *Sequence) Observe(id string) {
	digits, ok := strings.CutPrefix(id, idPrefix)
	if !ok || !allDigits(digits) {
		return
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n > maxObserved {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if n > s.last {
		s.last = n
	}
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

package fractal

import (
	"encoding/binary"
	"iter"
	"math/rand/v2"
)

// streamBatch is the number of words drawn from the source per refill.
const streamBatch = 4096

// WordSource supplies uniformly distributed 64-bit words.
// *rand.Rand, *rand.PCG and *rand.ChaCha8 all satisfy it.
type WordSource interface {
	Uint64() uint64
}

// NewRandomSource returns a ChaCha8 source seeded from the runtime generator.
func NewRandomSource() WordSource {
	var seed [32]byte
	for i := 0; i < len(seed); i += 8 {
		binary.LittleEndian.PutUint64(seed[i:], rand.Uint64())
	}
	return rand.NewChaCha8(seed)
}

// NewSeededSource returns a deterministic source for reproducible renders.
func NewSeededSource(seed uint64) WordSource {
	return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
}

// DecisionStream is a finite, single-use sequence of fair coin flips.
//
// Words are drawn from the source lazily, streamBatch at a time, so memory
// stays bounded regardless of the budget. Within a word bits are taken least
// significant first. Nothing is ever yielded twice: a stream that has been
// consumed stays empty.
type DecisionStream struct {
	src       WordSource
	remaining int // words not yet drawn from src
	drawn     int

	buf []uint64
	pos int

	cur      uint64 // partially consumed word for Bits
	bitsLeft int
}

// NewDecisionStream returns a stream of exactly words·64 decisions.
func NewDecisionStream(src WordSource, words int) *DecisionStream {
	return &DecisionStream{src: src, remaining: max(words, 0)}
}

// Drawn reports how many words have been taken from the source so far.
func (s *DecisionStream) Drawn() int {
	return s.drawn
}

// Words yields the remaining whole words. If Bits stopped partway through a
// word, the rest of that word is discarded.
func (s *DecisionStream) Words() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		s.bitsLeft = 0
		for {
			w, ok := s.nextWord()
			if !ok || !yield(w) {
				return
			}
		}
	}
}

// Bits yields the remaining decisions one at a time, LSB first.
func (s *DecisionStream) Bits() iter.Seq[bool] {
	return func(yield func(bool) bool) {
		for {
			if s.bitsLeft == 0 {
				w, ok := s.nextWord()
				if !ok {
					return
				}
				s.cur, s.bitsLeft = w, BitsPerWord
			}
			b := s.cur&1 != 0
			s.cur >>= 1
			s.bitsLeft--
			if !yield(b) {
				return
			}
		}
	}
}

func (s *DecisionStream) nextWord() (uint64, bool) {
	if s.pos == len(s.buf) && !s.refill() {
		return 0, false
	}
	w := s.buf[s.pos]
	s.pos++
	return w, true
}

func (s *DecisionStream) refill() bool {
	n := min(s.remaining, streamBatch)
	if n == 0 {
		return false
	}
	if cap(s.buf) < n {
		s.buf = make([]uint64, n)
	}
	s.buf = s.buf[:n]
	for i := range s.buf {
		s.buf[i] = s.src.Uint64()
	}
	s.remaining -= n
	s.drawn += n
	s.pos = 0
	return true
}

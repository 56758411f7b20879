package virtmem

import (
	"fmt"
	"math/rand"
	"strings"
)

type Replacer interface {
	// OnInstall records that a page has just become resident in frame.
	// It is called on every fault, whether the frame was free or evicted.
	OnInstall(frame Frame)

	// Victim picks an occupied frame of t to reclaim and forgets it.
	// ok is false when no occupied frame is tracked.
	Victim(t *Table) (frame Frame, ok bool)

	// frames currently tracked
	Size() int
}

type Algorithm int

const (
	FIFO Algorithm = iota
	LRU
	Random
)

var algorithmNames = map[Algorithm]string{
	FIFO:   "fifo",
	LRU:    "lru",
	Random: "rand",
}

func (a Algorithm) String() string {
	if name, ok := algorithmNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// ParseAlgorithm accepts fifo, lru or rand.
func ParseAlgorithm(s string) (Algorithm, error) {
	for _, a := range []Algorithm{FIFO, LRU, Random} {
		if s == algorithmNames[a] {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w %q, expected one of %s", ErrUnknownAlgorithm, s, legalAlgorithms())
}

func legalAlgorithms() string {
	return strings.Join([]string{algorithmNames[FIFO], algorithmNames[LRU], algorithmNames[Random]}, ", ")
}

// NewReplacer builds the policy for a. rng only feeds the Random policy; a nil
// rng gets a time seeded source.
func NewReplacer(a Algorithm, nframes int, rng *rand.Rand) (Replacer, error) {
	switch a {
	case FIFO:
		return NewFIFOReplacer(), nil
	case LRU:
		return NewLRUReplacer(nframes), nil
	case Random:
		if rng == nil {
			rng = rand.New(rand.NewSource(TimeSeed()))
		}
		return NewRandomReplacer(nframes, rng), nil
	}
	return nil, fmt.Errorf("%w %v, expected one of %s", ErrUnknownAlgorithm, a, legalAlgorithms())
}

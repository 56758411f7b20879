package virtmem

import (
	lru "github.com/hashicorp/golang-lru/simplelru"
)

// LRUReplacer evicts the frame with the oldest install stamp. The cache keeps
// frames in stamp order, so the oldest entry is always the smallest stamp.
type LRUReplacer struct {
	internal *lru.LRU
	clock    uint64
}

func NewLRUReplacer(nframes int) *LRUReplacer {
	if nframes < 1 {
		nframes = 1
	}
	c, err := lru.NewLRU(nframes, nil)
	if err != nil {
		panic(err)
	}
	return &LRUReplacer{
		internal: c,
	}
}

func (r *LRUReplacer) OnInstall(frame Frame) {
	r.clock++
	r.internal.Add(frame, r.clock)
}

func (r *LRUReplacer) Victim(t *Table) (Frame, bool) {
	for {
		key, _, ok := r.internal.RemoveOldest()
		if !ok {
			return NoFrame, false
		}
		frame := key.(Frame)
		if t.Occupied(frame) {
			return frame, true
		}
	}
}

// Stamp returns the install stamp of frame, 0 if it is not tracked.
func (r *LRUReplacer) Stamp(frame Frame) uint64 {
	v, ok := r.internal.Peek(frame)
	if !ok {
		return 0
	}
	return v.(uint64)
}

func (r *LRUReplacer) Size() int { return r.internal.Len() }

package virtmem

import "math/rand"

// RandomReplacer evicts a frame chosen uniformly among the occupied ones.
// Frames are kept densely packed so a pick is one Intn call.
type RandomReplacer struct {
	frames []Frame
	index  map[Frame]int
	rng    *rand.Rand
}

func NewRandomReplacer(nframes int, rng *rand.Rand) *RandomReplacer {
	if nframes < 0 {
		nframes = 0
	}
	return &RandomReplacer{
		frames: make([]Frame, 0, nframes),
		index:  make(map[Frame]int, nframes),
		rng:    rng,
	}
}

func (r *RandomReplacer) OnInstall(frame Frame) {
	if _, ok := r.index[frame]; ok {
		return
	}
	r.index[frame] = len(r.frames)
	r.frames = append(r.frames, frame)
}

func (r *RandomReplacer) Victim(t *Table) (Frame, bool) {
	for len(r.frames) != 0 {
		frame := r.frames[r.rng.Intn(len(r.frames))]
		r.remove(frame)
		if t.Occupied(frame) {
			return frame, true
		}
	}
	return NoFrame, false
}

func (r *RandomReplacer) Size() int { return len(r.frames) }

func (r *RandomReplacer) remove(frame Frame) {
	idx, ok := r.index[frame]
	if !ok {
		return
	}
	last := len(r.frames) - 1
	r.frames[idx] = r.frames[last]
	r.index[r.frames[idx]] = idx
	r.frames = r.frames[:last]
	delete(r.index, frame)
}

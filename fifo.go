package virtmem

import "container/list"

// FIFOReplacer evicts the frame that has held its page the longest.
type FIFOReplacer struct {
	order *list.List
	elems map[Frame]*list.Element
}

func NewFIFOReplacer() *FIFOReplacer {
	return &FIFOReplacer{
		order: list.New(),
		elems: map[Frame]*list.Element{},
	}
}

func (r *FIFOReplacer) OnInstall(frame Frame) {
	// a frame re-entering the queue goes to the back
	if elem, ok := r.elems[frame]; ok {
		r.order.Remove(elem)
	}
	r.elems[frame] = r.order.PushBack(frame)
}

func (r *FIFOReplacer) Victim(t *Table) (Frame, bool) {
	for r.order.Len() != 0 {
		head := r.order.Front()
		r.order.Remove(head)
		frame := head.Value.(Frame)
		delete(r.elems, frame)
		if t.Occupied(frame) {
			return frame, true
		}
	}
	return NoFrame, false
}

func (r *FIFOReplacer) Size() int { return r.order.Len() }

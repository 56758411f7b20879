package virtmem

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	pair "github.com/notEpsilon/go-pair"
)

type (
	Page  int
	Frame int
)

const (
	NoPage  Page  = -1
	NoFrame Frame = -1
)

// Table maps resident pages to frames and back.
type Table struct {
	pageToFrame []Frame
	frameToPage []Page
	used        int
}

func NewTable(npages, nframes int) *Table {
	pageToFrame := make([]Frame, npages)
	for idx := range pageToFrame {
		pageToFrame[idx] = NoFrame
	}
	frameToPage := make([]Page, nframes)
	for idx := range frameToPage {
		frameToPage[idx] = NoPage
	}
	return &Table{
		pageToFrame: pageToFrame,
		frameToPage: frameToPage,
	}
}

func (t *Table) NumPages() int  { return len(t.pageToFrame) }
func (t *Table) NumFrames() int { return len(t.frameToPage) }

// Used returns the number of occupied frames.
func (t *Table) Used() int { return t.used }

func (t *Table) EmptyFrames() int { return len(t.frameToPage) - t.used }

// Lookup returns the frame holding p. ok is false on a fault, including
// when p is out of range.
func (t *Table) Lookup(p Page) (f Frame, ok bool) {
	if !t.validPage(p) {
		return NoFrame, false
	}
	f = t.pageToFrame[p]
	return f, f != NoFrame
}

// FreeFrame returns the lowest empty frame.
func (t *Table) FreeFrame() (Frame, bool) {
	if t.used == len(t.frameToPage) {
		return NoFrame, false
	}
	for idx, p := range t.frameToPage {
		if p == NoPage {
			return Frame(idx), true
		}
	}
	return NoFrame, false
}

func (t *Table) Occupied(f Frame) bool {
	return t.validFrame(f) && t.frameToPage[f] != NoPage
}

// Occupant returns the page resident in f, or NoPage.
func (t *Table) Occupant(f Frame) Page {
	if !t.validFrame(f) {
		return NoPage
	}
	return t.frameToPage[f]
}

// Install maps p into the empty frame f.
func (t *Table) Install(p Page, f Frame) error {
	if !t.validPage(p) {
		return fmt.Errorf("install page %d: %w", p, ErrOutOfRange)
	}
	if !t.validFrame(f) {
		return fmt.Errorf("install frame %d: %w", f, ErrOutOfRange)
	}
	if cur := t.frameToPage[f]; cur != NoPage {
		return fmt.Errorf("install page %d into frame %d holding page %d: %w", p, f, cur, ErrFrameOccupied)
	}
	if cur := t.pageToFrame[p]; cur != NoFrame {
		return fmt.Errorf("install page %d, already in frame %d: %w", p, cur, ErrPageResident)
	}
	t.frameToPage[f] = p
	t.pageToFrame[p] = f
	t.used++
	return nil
}

// Evict clears f and returns the page that was resident there.
func (t *Table) Evict(f Frame) (Page, error) {
	if !t.validFrame(f) {
		return NoPage, fmt.Errorf("evict frame %d: %w", f, ErrOutOfRange)
	}
	p := t.frameToPage[f]
	if p == NoPage {
		return NoPage, fmt.Errorf("evict frame %d: %w", f, ErrFrameEmpty)
	}
	t.frameToPage[f] = NoPage
	t.pageToFrame[p] = NoFrame
	t.used--
	return p, nil
}

// Resident returns the set of pages currently held in some frame.
func (t *Table) Resident() mapset.Set[Page] {
	s := mapset.NewThreadUnsafeSet[Page]()
	for _, p := range t.frameToPage {
		if p != NoPage {
			s.Add(p)
		}
	}
	return s
}

// Mappings lists (page, frame) for every occupied frame in frame order.
func (t *Table) Mappings() []pair.Pair[Page, Frame] {
	ret := make([]pair.Pair[Page, Frame], 0, t.used)
	for idx, p := range t.frameToPage {
		if p == NoPage {
			continue
		}
		ret = append(ret, pair.Pair[Page, Frame]{First: p, Second: Frame(idx)})
	}
	return ret
}

// Check verifies that the two maps are exact inverses and that the
// occupancy count agrees with both of them.
func (t *Table) Check() error {
	mapped := 0
	for idx, f := range t.pageToFrame {
		if f == NoFrame {
			continue
		}
		mapped++
		if !t.validFrame(f) {
			return fmt.Errorf("page %d maps to frame %d: %w", idx, f, ErrOutOfRange)
		}
		if got := t.frameToPage[f]; got != Page(idx) {
			return fmt.Errorf("page %d maps to frame %d but frame holds page %d", idx, f, got)
		}
	}
	occupied := 0
	for idx, p := range t.frameToPage {
		if p == NoPage {
			continue
		}
		occupied++
		if !t.validPage(p) {
			return fmt.Errorf("frame %d holds page %d: %w", idx, p, ErrOutOfRange)
		}
		if got := t.pageToFrame[p]; got != Frame(idx) {
			return fmt.Errorf("frame %d holds page %d but page maps to frame %d", idx, p, got)
		}
	}
	if mapped != occupied || occupied != t.used || t.used > len(t.frameToPage) {
		return fmt.Errorf("occupancy mismatch: mapped pages %d, occupied frames %d, counted %d, capacity %d",
			mapped, occupied, t.used, len(t.frameToPage))
	}
	return nil
}

func (t *Table) validPage(p Page) bool {
	return p >= 0 && int(p) < len(t.pageToFrame)
}

func (t *Table) validFrame(f Frame) bool {
	return f >= 0 && int(f) < len(t.frameToPage)
}

package virtmem

import (
	"encoding/binary"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/spaolacci/murmur3"
)

type Locality int

const (
	LowLocality Locality = iota
	MediumLocality
	HighLocality
)

var localityNames = map[Locality]string{
	LowLocality:    "ll",
	MediumLocality: "ml",
	HighLocality:   "hl",
}

func (l Locality) String() string {
	if name, ok := localityNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Locality(%d)", int(l))
}

// ParseLocality accepts ll, ml or hl.
func ParseLocality(s string) (Locality, error) {
	for _, l := range []Locality{LowLocality, MediumLocality, HighLocality} {
		if s == localityNames[l] {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w %q, expected one of %s", ErrUnknownLocality, s, legalLocalities())
}

func legalLocalities() string {
	return strings.Join([]string{localityNames[LowLocality], localityNames[MediumLocality], localityNames[HighLocality]}, ", ")
}

// Window is the largest step between two consecutive references. Low
// locality has no window and returns -1.
func (l Locality) Window(npages int) int {
	switch l {
	case MediumLocality:
		return npages * 5 / 100
	case HighLocality:
		return npages * 3 / 100
	}
	return -1
}

// Workload is the reference stream replayed by a Simulator.
type Workload []Page

// Fingerprint hashes the stream so two runs can be compared cheaply.
func (w Workload) Fingerprint() uint64 {
	buf := make([]byte, 8*len(w))
	for idx, p := range w {
		binary.LittleEndian.PutUint64(buf[idx*8:], uint64(p))
	}
	return murmur3.Sum64(buf)
}

// Generator produces synthetic reference streams from a seeded source.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

func TimeSeed() int64 { return time.Now().UnixNano() }

// Generate returns nrefs pages in [0, npages). The first reference is
// uniform; later ones follow a wrapped random walk bounded by the
// locality window, except under low locality where every draw is uniform.
func (g *Generator) Generate(nrefs, npages int, locality Locality) (Workload, error) {
	if npages < 1 {
		return nil, fmt.Errorf("generate with %d pages: %w", npages, ErrInvalidConfig)
	}
	if nrefs < 0 {
		return nil, fmt.Errorf("generate %d references: %w", nrefs, ErrInvalidConfig)
	}
	if _, ok := localityNames[locality]; !ok {
		return nil, fmt.Errorf("%w %v, expected one of %s", ErrUnknownLocality, locality, legalLocalities())
	}

	refs := make(Workload, nrefs)
	w := locality.Window(npages)
	for i := range refs {
		if i == 0 || locality == LowLocality {
			refs[i] = Page(g.rng.Intn(npages))
			continue
		}
		offset := g.rng.Intn(2*w+1) - w
		refs[i] = Page((int(refs[i-1]) + offset + npages) % npages)
	}
	return refs, nil
}

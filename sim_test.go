package virtmem

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSimulator(t *testing.T, npages, nframes int, a Algorithm, opts ...Option) *Simulator {
	cfg := Config{NPages: npages, NFrames: nframes, Algorithm: a, Seed: 1}
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	sim, err := NewSimulator(cfg, opts...)
	require.NoError(t, err)
	return sim
}

func Test_FIFOBeladyExample(t *testing.T) {
	refs := Workload{0, 1, 2, 3, 0, 1, 4, 0, 1, 2, 3, 4}

	sim := newTestSimulator(t, 5, 3, FIFO)
	report, err := sim.Run(refs)
	require.NoError(t, err)
	assert.Equal(t, 9, report.Faults)
	assert.Equal(t, 3, report.Hits)
	assert.Equal(t, 0, report.EmptyFrames)
	assert.True(t, mapset.NewThreadUnsafeSet[Page](2, 3, 4).Equal(sim.Table().Resident()))

	// one more frame, one more fault
	sim = newTestSimulator(t, 5, 4, FIFO)
	report, err = sim.Run(refs)
	require.NoError(t, err)
	assert.Equal(t, 10, report.Faults)
	assert.Equal(t, 6, report.Evictions)
}

func Test_LRUExample(t *testing.T) {
	sim := newTestSimulator(t, 4, 2, LRU)
	type step struct {
		page    Page
		hit     bool
		frame   Frame
		evicted Page
	}
	trace := []step{
		{0, false, 0, NoPage},
		{1, false, 1, NoPage},
		{0, true, 0, NoPage},
		{2, false, 0, 0},
		{1, true, 1, NoPage},
		{0, false, 1, 1},
		{3, false, 0, 2},
	}
	for i, s := range trace {
		ev, err := sim.Step(s.page)
		require.NoError(t, err)
		assert.Equal(t, s.hit, ev.Hit, "step %d", i)
		assert.Equal(t, s.frame, ev.Frame, "step %d", i)
		assert.Equal(t, s.evicted, ev.Evicted, "step %d", i)
	}
	report, err := sim.Finish()
	require.NoError(t, err)
	assert.Equal(t, 5, report.Faults)
	assert.Equal(t, 0, report.EmptyFrames)
	assert.True(t, mapset.NewThreadUnsafeSet[Page](0, 3).Equal(sim.Table().Resident()))
}

func Test_SimulatorInvariants(t *testing.T) {
	for _, a := range []Algorithm{FIFO, LRU, Random} {
		for _, l := range []Locality{LowLocality, MediumLocality, HighLocality} {
			w, err := NewGenerator(5).Generate(3000, 120, l)
			require.NoError(t, err)

			sim := newTestSimulator(t, 120, 17, a)
			prevFaults := 0
			for i, p := range w {
				ev, err := sim.Step(p)
				require.NoError(t, err)

				tbl := sim.Table()
				require.NoError(t, tbl.Check(), "%v/%v step %d", a, l, i)
				require.LessOrEqual(t, tbl.Used(), tbl.NumFrames())
				require.Equal(t, tbl.Used(), tbl.Resident().Cardinality())

				f, ok := tbl.Lookup(p)
				require.True(t, ok)
				require.Equal(t, ev.Frame, f)

				if ev.Hit {
					require.Equal(t, prevFaults, sim.Faults())
				} else {
					require.Equal(t, prevFaults+1, sim.Faults())
				}
				prevFaults = sim.Faults()
			}
			report, err := sim.Finish()
			require.NoError(t, err)
			assert.LessOrEqual(t, report.Faults, len(w))
			assert.Equal(t, len(w), report.Hits+report.Faults)
			assert.Equal(t, report.Faults-report.Evictions, sim.Table().Used())
		}
	}
}

func Test_SimulatorEmptyFrames(t *testing.T) {
	sim := newTestSimulator(t, 3, 8, LRU)
	report, err := sim.Run(Workload{0, 1, 2, 0, 1, 2, 2})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Faults)
	assert.Equal(t, 5, report.EmptyFrames)
	assert.Equal(t, 0, report.Evictions)

	sim = newTestSimulator(t, 3, 2, FIFO)
	report, err = sim.Run(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Faults)
	assert.Equal(t, 2, report.EmptyFrames)
}

func Test_SimulatorIdempotentRerun(t *testing.T) {
	for _, a := range []Algorithm{FIFO, LRU, Random} {
		run := func() Report {
			cfg := Config{NPages: 300, NFrames: 40, Algorithm: a, NRefs: 5000, Locality: MediumLocality, Seed: 1234}
			sim, err := NewSimulator(cfg, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
			require.NoError(t, err)
			report, err := sim.Generate(NewGenerator(cfg.Seed))
			require.NoError(t, err)
			return report
		}
		first, second := run(), run()
		assert.Equal(t, first, second, "%v", a)
	}
}

func Test_SimulatorRandomUsesInjectedSource(t *testing.T) {
	w, err := NewGenerator(3).Generate(2000, 50, LowLocality)
	require.NoError(t, err)

	a := newTestSimulator(t, 50, 10, Random, WithRand(rand.New(rand.NewSource(8))))
	b := newTestSimulator(t, 50, 10, Random, WithRand(rand.New(rand.NewSource(8))))
	ra, err := a.Run(w)
	require.NoError(t, err)
	rb, err := b.Run(w)
	require.NoError(t, err)
	assert.Equal(t, ra, rb)
	assert.Equal(t, a.Table().Mappings(), b.Table().Mappings())
}

func Test_SimulatorStates(t *testing.T) {
	sim := newTestSimulator(t, 4, 2, FIFO)
	assert.Equal(t, Running, sim.State())

	_, err := sim.Step(4)
	assert.True(t, errors.Is(err, ErrOutOfRange))
	_, err = sim.Step(-1)
	assert.True(t, errors.Is(err, ErrOutOfRange))

	_, err = sim.Run(Workload{0, 1})
	require.NoError(t, err)
	assert.Equal(t, Done, sim.State())
	assert.Equal(t, "DONE", sim.State().String())

	_, err = sim.Step(0)
	assert.True(t, errors.Is(err, ErrSimulationDone))
}

func Test_NewSimulatorRejectsConfig(t *testing.T) {
	_, err := NewSimulator(Config{NPages: 0, NFrames: 2})
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	_, err = NewSimulator(Config{NPages: 2, NFrames: 0})
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	_, err = NewSimulator(Config{NPages: 2, NFrames: 2, Algorithm: Algorithm(9)})
	assert.True(t, errors.Is(err, ErrUnknownAlgorithm))
}

func Test_ReportWriteTo(t *testing.T) {
	var buf bytes.Buffer
	_, err := Report{Faults: 12, EmptyFrames: 3}.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, "Total number of page faults: 12\nNumber of empty frames: 3\n", buf.String())
}

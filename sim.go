package virtmem

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
)

type State int

const (
	Running State = iota
	Done
)

func (s State) String() string {
	if s == Done {
		return "DONE"
	}
	return "RUNNING"
}

// Event describes what one reference did to the table.
type Event struct {
	Seq     int
	Page    Page
	Frame   Frame
	Hit     bool
	Evicted Page // NoPage unless the fault reclaimed an occupied frame
}

type Report struct {
	References  int
	Hits        int
	Faults      int
	Evictions   int
	EmptyFrames int
}

// WriteTo prints the two report lines.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintf(w, "Total number of page faults: %d\nNumber of empty frames: %d\n", r.Faults, r.EmptyFrames)
	return int64(n), err
}

// Simulator replays references against a page table. It owns all of its
// state and is not safe for concurrent use.
type Simulator struct {
	cfg      Config
	table    *Table
	replacer Replacer
	state    State
	stats    Report
	seq      int

	log   *slog.Logger
	trace *TraceWriter
	rng   *rand.Rand
}

type Option func(*Simulator)

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) { s.log = l }
}

func WithTrace(tw *TraceWriter) Option {
	return func(s *Simulator) { s.trace = tw }
}

// WithRand sets the source used by the Random policy.
func WithRand(rng *rand.Rand) Option {
	return func(s *Simulator) { s.rng = rng }
}

func NewSimulator(cfg Config, opts ...Option) (*Simulator, error) {
	if err := cfg.validateTable(); err != nil {
		return nil, err
	}
	s := &Simulator{
		cfg:   cfg,
		table: NewTable(cfg.NPages, cfg.NFrames),
		state: Running,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(cfg.Seed))
	}
	r, err := NewReplacer(cfg.Algorithm, cfg.NFrames, s.rng)
	if err != nil {
		return nil, err
	}
	s.replacer = r
	s.stats.EmptyFrames = cfg.NFrames
	return s, nil
}

func (s *Simulator) Table() *Table { return s.table }

func (s *Simulator) Replacer() Replacer { return s.replacer }

func (s *Simulator) State() State { return s.state }

// Faults is the running fault count.
func (s *Simulator) Faults() int { return s.stats.Faults }

// Step processes one reference.
func (s *Simulator) Step(p Page) (Event, error) {
	if s.state == Done {
		return Event{}, ErrSimulationDone
	}
	if p < 0 || int(p) >= s.table.NumPages() {
		return Event{}, fmt.Errorf("reference %d to page %d: %w", s.seq, p, ErrOutOfRange)
	}
	ev := Event{Seq: s.seq, Page: p, Evicted: NoPage}
	s.seq++
	s.stats.References++

	if f, ok := s.table.Lookup(p); ok {
		ev.Frame, ev.Hit = f, true
		s.stats.Hits++
		return ev, s.record(ev)
	}

	s.stats.Faults++
	frame, ok := s.table.FreeFrame()
	if !ok {
		victim, found := s.replacer.Victim(s.table)
		if !found {
			return ev, fmt.Errorf("page %d fault with %d frames in use: %w", p, s.table.Used(), ErrNoVictim)
		}
		evicted, err := s.table.Evict(victim)
		if err != nil {
			return ev, err
		}
		s.stats.Evictions++
		ev.Evicted = evicted
		frame = victim
		s.log.Debug("evicted page", "page", evicted, "frame", victim, "algorithm", s.cfg.Algorithm)
	}
	if err := s.table.Install(p, frame); err != nil {
		return ev, err
	}
	s.replacer.OnInstall(frame)
	ev.Frame = frame
	s.log.Debug("page fault", "seq", ev.Seq, "page", p, "frame", frame, "faults", s.stats.Faults)
	return ev, s.record(ev)
}

func (s *Simulator) record(ev Event) error {
	if s.trace == nil {
		return nil
	}
	if err := s.trace.Record(ev); err != nil {
		return fmt.Errorf("trace reference %d: %w", ev.Seq, err)
	}
	return nil
}

// Run replays every reference of w and finishes the simulation.
func (s *Simulator) Run(w Workload) (Report, error) {
	s.log.Info("starting simulation",
		"pages", s.cfg.NPages, "frames", s.cfg.NFrames, "algorithm", s.cfg.Algorithm,
		"references", len(w), "fingerprint", w.Fingerprint())
	for _, p := range w {
		if _, err := s.Step(p); err != nil {
			return s.stats, err
		}
	}
	return s.Finish()
}

// Generate draws the configured workload from g and runs it.
func (s *Simulator) Generate(g *Generator) (Report, error) {
	w, err := g.Generate(s.cfg.NRefs, s.cfg.NPages, s.cfg.Locality)
	if err != nil {
		return Report{}, err
	}
	return s.Run(w)
}

// Finish moves the simulation to Done and returns the final report.
func (s *Simulator) Finish() (Report, error) {
	if s.state == Done {
		return s.stats, nil
	}
	s.state = Done
	s.stats.EmptyFrames = s.table.EmptyFrames()
	s.log.Info("simulation done",
		"faults", s.stats.Faults, "hits", s.stats.Hits, "evictions", s.stats.Evictions,
		"empty_frames", s.stats.EmptyFrames)
	if s.trace != nil {
		if err := s.trace.Summary(s.table, s.stats); err != nil {
			return s.stats, fmt.Errorf("trace summary: %w", err)
		}
		if err := s.trace.Flush(); err != nil {
			return s.stats, fmt.Errorf("flush trace: %w", err)
		}
	}
	return s.stats, nil
}

package virtmem

import (
	"fmt"
	"strconv"
)

// Environment overrides read by ApplyEnv.
const (
	EnvSeed     = "VIRTMEM_SEED"
	EnvLogLevel = "VIRTMEM_LOG_LEVEL"
	EnvTrace    = "VIRTMEM_TRACE"
)

// Config holds everything one run needs.
type Config struct {
	NPages    int
	NFrames   int
	Algorithm Algorithm
	NRefs     int
	Locality  Locality

	Seed      int64
	LogLevel  string
	TracePath string
}

// ParseArgs reads the positional arguments
//
//	npages nframes algorithm nrefs locality
//
// args must not include the program name. The seed defaults to the clock.
func ParseArgs(args []string) (Config, error) {
	if len(args) != 5 {
		return Config{}, ErrUsage
	}
	cfg := Config{
		Seed:     TimeSeed(),
		LogLevel: "WARN",
	}
	var err error
	if cfg.NPages, err = parseCount("npages", args[0]); err != nil {
		return Config{}, err
	}
	if cfg.NFrames, err = parseCount("nframes", args[1]); err != nil {
		return Config{}, err
	}
	if cfg.Algorithm, err = ParseAlgorithm(args[2]); err != nil {
		return Config{}, err
	}
	if cfg.NRefs, err = parseCount("nrefs", args[3]); err != nil {
		return Config{}, err
	}
	if cfg.Locality, err = ParseLocality(args[4]); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides seed, log level and trace path from getenv. Empty
// values leave the current setting alone.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvSeed, v, ErrInvalidConfig)
		}
		c.Seed = seed
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getenv(EnvTrace); v != "" {
		c.TracePath = v
	}
	return nil
}

func (c Config) Validate() error {
	if err := c.validateTable(); err != nil {
		return err
	}
	if c.NRefs < 0 {
		return fmt.Errorf("nrefs must not be negative, got %d: %w", c.NRefs, ErrInvalidConfig)
	}
	if _, ok := algorithmNames[c.Algorithm]; !ok {
		return fmt.Errorf("%w %v, expected one of %s", ErrUnknownAlgorithm, c.Algorithm, legalAlgorithms())
	}
	if _, ok := localityNames[c.Locality]; !ok {
		return fmt.Errorf("%w %v, expected one of %s", ErrUnknownLocality, c.Locality, legalLocalities())
	}
	return nil
}

func (c Config) validateTable() error {
	if c.NPages < 1 {
		return fmt.Errorf("npages must be positive, got %d: %w", c.NPages, ErrInvalidConfig)
	}
	if c.NFrames < 1 {
		return fmt.Errorf("nframes must be positive, got %d: %w", c.NFrames, ErrInvalidConfig)
	}
	return nil
}

func parseCount(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not an integer: %w", name, s, ErrInvalidConfig)
	}
	return n, nil
}

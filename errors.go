package virtmem

import "errors"

var (
	ErrUsage            = errors.New("usage: virtmem npages nframes algorithm nrefs locality")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrUnknownAlgorithm = errors.New("unknown replacement algorithm")
	ErrUnknownLocality  = errors.New("unknown locality")

	ErrOutOfRange    = errors.New("id out of range")
	ErrFrameOccupied = errors.New("frame is occupied")
	ErrFrameEmpty    = errors.New("frame is empty")
	ErrPageResident  = errors.New("page is already resident")

	// ErrNoVictim is returned when the replacer has nothing to evict.
	ErrNoVictim       = errors.New("no victim frame")
	ErrSimulationDone = errors.New("simulation already done")
)

package stdlib

import (
	"math/rand/v2"

	"cbot/internal/natives"
)

// Options configure Register.
type Options struct {
	// Seed feeds rand(); equal seeds give equal sequences.
	Seed uint64
}

// Register adds every standard native to reg.
func Register(reg *natives.Registry, opts Options) error {
	if err := registerPoint(reg); err != nil {
		return err
	}
	registerStrings(reg)
	registerMath(reg, rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)))
	return nil
}

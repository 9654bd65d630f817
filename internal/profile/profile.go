// Package profile defines the layout profile input: function sizes,
// call edges and participation flags produced by an external
// toolchain step.
package profile

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateFunction reports two entries sharing a name.
	ErrDuplicateFunction = errors.New("duplicate function name")

	// ErrUnknownFunction reports a call referencing a name with no entry.
	ErrUnknownFunction = errors.New("call references unknown function")
)

// Function is one code unit eligible for bin assignment.
type Function struct {
	Name string `json:"name" yaml:"name"`

	// Size is the estimated compiled size in bytes.
	Size int64 `json:"size" yaml:"size"`

	// Exclude keeps the function out of binning entirely. Which
	// functions participate is the profile producer's call.
	Exclude bool `json:"exclude,omitempty" yaml:"exclude,omitempty"`
}

// Call is one caller→callee relationship. Repeated pairs are fine and
// collapse during graph construction.
type Call struct {
	Caller string `json:"caller" yaml:"caller"`
	Callee string `json:"callee" yaml:"callee"`
}

// Profile is the full layout profile for one compiled module.
type Profile struct {
	Module    string     `json:"module,omitempty" yaml:"module,omitempty"`
	Functions []Function `json:"functions" yaml:"functions"`
	Calls     []Call     `json:"calls,omitempty" yaml:"calls,omitempty"`
}

// Validate checks internal consistency: unique non-empty names,
// positive sizes for participating functions, and calls referencing
// known names.
func (p *Profile) Validate() error {
	seen := make(map[string]bool, len(p.Functions))
	for i, f := range p.Functions {
		if f.Name == "" {
			return fmt.Errorf("function %d: name is empty", i)
		}
		if seen[f.Name] {
			return fmt.Errorf("function %q: %w", f.Name, ErrDuplicateFunction)
		}
		seen[f.Name] = true
		if !f.Exclude && f.Size <= 0 {
			return fmt.Errorf("function %q: size must be positive, got %d", f.Name, f.Size)
		}
	}
	for _, c := range p.Calls {
		if !seen[c.Caller] {
			return fmt.Errorf("caller %q: %w", c.Caller, ErrUnknownFunction)
		}
		if !seen[c.Callee] {
			return fmt.Errorf("callee %q: %w", c.Callee, ErrUnknownFunction)
		}
	}
	return nil
}

// Index returns the position of every function by name.
func (p *Profile) Index() map[string]int {
	idx := make(map[string]int, len(p.Functions))
	for i, f := range p.Functions {
		idx[f.Name] = i
	}
	return idx
}

// Participating returns how many functions take part in binning.
func (p *Profile) Participating() int {
	n := 0
	for _, f := range p.Functions {
		if !f.Exclude {
			n++
		}
	}
	return n
}

// TotalSize returns the summed size of participating functions.
func (p *Profile) TotalSize() int64 {
	var total int64
	for _, f := range p.Functions {
		if !f.Exclude {
			total += f.Size
		}
	}
	return total
}

package costing

import "fmt"

// LookupError is a fatal costing failure for one variant: a required shape,
// quality, or price bracket could not be resolved against the rule table.
// It carries structured context so the run report can surface exactly what
// was missing.
type LookupError struct {
	Kind       string // "shape", "quality", "bracket"
	StoneType  string // "natural" or "labgrown"
	Shape      string
	Quality    string
	Carat      float64
	CoreNumber string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("diamond price lookup failed for core %s: missing %s (type=%s shape=%q carat=%.2f quality=%q)",
		e.CoreNumber, e.Kind, e.StoneType, e.Shape, e.Carat, e.Quality)
}

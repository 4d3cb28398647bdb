package export

import "fmt"

// Report is the structural validation result returned alongside the
// serialized output. Problems are collected, never thrown: a run with
// validation errors still produces its CSV, and the caller decides what to
// do with it.
type Report struct {
	IsValid     bool
	Errors      []string
	RowCount    int
	HandleCount int
}

// Validate checks the assembled rows' parent/child structure:
//   - every row has a handle and a SKU
//   - each handle has exactly one parent row (duplicate parents and
//     parentless handles are both errors)
//   - the parent is the first row of its handle
func Validate(rows []*Row) Report {
	rep := Report{RowCount: len(rows)}

	type handleState struct {
		parents       int
		children      int
		firstIsParent bool
	}
	order := []string{}
	handles := map[string]*handleState{}

	for i, r := range rows {
		if r.Handle == "" {
			rep.Errors = append(rep.Errors, fmt.Sprintf("row %d: missing handle", i+1))
			continue
		}
		if r.SKU == "" {
			rep.Errors = append(rep.Errors, fmt.Sprintf("row %d (handle %s): missing SKU", i+1, r.Handle))
		}

		h, ok := handles[r.Handle]
		if !ok {
			h = &handleState{firstIsParent: r.IsParent()}
			handles[r.Handle] = h
			order = append(order, r.Handle)
		}
		if r.IsParent() {
			h.parents++
		} else {
			h.children++
		}
	}

	for _, handle := range order {
		h := handles[handle]
		switch {
		case h.parents == 0:
			rep.Errors = append(rep.Errors, fmt.Sprintf("handle %s: %d child rows with no parent row", handle, h.children))
		case h.parents > 1:
			rep.Errors = append(rep.Errors, fmt.Sprintf("handle %s: duplicate parent rows (%d)", handle, h.parents))
		case !h.firstIsParent:
			rep.Errors = append(rep.Errors, fmt.Sprintf("handle %s: parent row is not the first row of the handle", handle))
		}
	}

	rep.HandleCount = len(order)
	rep.IsValid = len(rep.Errors) == 0
	return rep
}

package models

// ConcurrentPrefix marks requirement codes that may be satisfied by enrolling at the same time.
const ConcurrentPrefix = "Concurrent: "

// PrerequisiteExpression is a parsed enrollment requirement.
// Groups must all be satisfied; the codes inside one group are alternatives.
type PrerequisiteExpression struct {
	Groups     [][]string `json:"groups"`
	Concurrent [][]string `json:"concurrent"`
}

// All returns the main groups followed by the concurrent groups.
func (e PrerequisiteExpression) All() [][]string {
	all := make([][]string, 0, len(e.Groups)+len(e.Concurrent))
	all = append(all, e.Groups...)
	all = append(all, e.Concurrent...)
	return all
}

// IsEmpty reports whether the expression has no requirements at all.
func (e PrerequisiteExpression) IsEmpty() bool {
	return len(e.Groups) == 0 && len(e.Concurrent) == 0
}

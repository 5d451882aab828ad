package aidl

import "sort"

// Position is a location inside one AIDL compilation unit. Line and Col
// are 1-based.
type Position struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Col    int `json:"col"`
}

// Range covers [Start, End) in byte offsets. Both endpoints carry their
// line/column so consumers never need the source text to render them.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Contains reports whether the 1-based line/column pair lies inside the
// range, endpoints included.
func (r Range) Contains(line, col int) bool {
	if line < r.Start.Line || line > r.End.Line {
		return false
	}
	if line == r.Start.Line && col < r.Start.Col {
		return false
	}
	if line == r.End.Line && col > r.End.Col {
		return false
	}
	return true
}

// LineIndex converts byte offsets into 1-based line/column pairs. The
// line start offsets are computed once per input.
type LineIndex struct {
	starts []int
}

func NewLineIndex(input []byte) *LineIndex {
	starts := []int{0}
	for i, b := range input {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts}
}

func (x *LineIndex) PositionAt(offset int) Position {
	line := sort.Search(len(x.starts), func(i int) bool {
		return x.starts[i] > offset
	}) - 1
	return Position{
		Offset: offset,
		Line:   line + 1,
		Col:    offset - x.starts[line] + 1,
	}
}

package token

import "errors"

// ErrIncompatibleSources is returned when two SourceViews over different
// buffers are combined.
var ErrIncompatibleSources = errors.New("source views reference different buffers")

// SourceView is a span within one shared source buffer. Start and End are
// byte offsets and the span is inclusive of End. A SourceView never copies
// the source text; String slices the buffer on demand.
type SourceView struct {
	Source string
	Start  int
	End    int
}

// NewSourceView creates a view of source[start..end] (inclusive).
func NewSourceView(source string, start, end int) SourceView {
	return SourceView{Source: source, Start: start, End: end}
}

// WholeSource returns a view covering the entire buffer.
func WholeSource(source string) SourceView {
	return SourceView{Source: source, Start: 0, End: len(source) - 1}
}

func (v SourceView) String() string {
	if v.Source == "" || v.Start > v.End {
		return ""
	}
	return v.Source[v.Start : v.End+1]
}

// Range combines a start and end view into a view of the whole span between
// them. The two views must reference the same buffer.
func Range(start, end SourceView) (SourceView, error) {
	if start.Source != end.Source {
		return SourceView{}, ErrIncompatibleSources
	}
	return SourceView{Source: start.Source, Start: start.Start, End: end.End}, nil
}

// Line returns the 1-based line number of the view's start offset.
func (v SourceView) Line() int {
	line := 1
	for i := 0; i < v.Start && i < len(v.Source); i++ {
		if v.Source[i] == '\n' {
			line++
		}
	}
	return line
}

// Column returns the 1-based column number of the view's start offset.
func (v SourceView) Column() int {
	col := 1
	for i := 0; i < v.Start && i < len(v.Source); i++ {
		if v.Source[i] == '\n' {
			col = 1
		} else {
			col++
		}
	}
	return col
}

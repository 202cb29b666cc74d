// Package differ renders line level comparisons of canonical YAML text.
//
// It has no knowledge of records: callers serialize both sides first and
// hand over the lines. Matching uses a longest-matching-block sequence
// matcher, so a moved block of SQL shows up as one change rather than many.
package differ

import (
	"fmt"
	"io"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sourcegraph/go-diff/diff"
)

// Lines splits text into lines without their terminators.
func Lines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// terminated returns lines each ending in a newline, as the unified writer
// expects.
func terminated(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimSuffix(l, "\n") + "\n"
	}
	return out
}

func trimmed(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.TrimSuffix(l, "\n")
	}
	return out
}

// Unified returns a unified diff, or "" when both sides are equal.
func Unified(from, to []string, opts ...Option) (string, error) {
	o := newOptions(opts...)
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        terminated(from),
		B:        terminated(to),
		FromFile: o.fromLabel,
		ToFile:   o.toLabel,
		Context:  o.contextOr(3),
	})
	if err != nil {
		return "", fmt.Errorf("computing unified diff: %w", err)
	}
	return text, nil
}

// RenderUnified writes a unified diff to w.
func RenderUnified(w io.Writer, from, to []string, opts ...Option) error {
	text, err := Unified(from, to, opts...)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}

// Stat counts line changes. A changed line is a deletion directly replaced
// by an addition.
type Stat struct {
	Added   int
	Deleted int
	Changed int
}

// HasChanges reports whether anything differs.
func (s Stat) HasChanges() bool {
	return s.Added+s.Deleted+s.Changed > 0
}

func (s Stat) String() string {
	return fmt.Sprintf("%d added, %d changed, %d deleted", s.Added, s.Changed, s.Deleted)
}

// Stats computes line statistics by parsing the unified diff of both sides.
func Stats(from, to []string) (Stat, error) {
	text, err := Unified(from, to)
	if err != nil {
		return Stat{}, err
	}
	return ParseStats(text)
}

// ParseStats counts the changes of a single-file unified diff.
func ParseStats(unified string) (Stat, error) {
	if strings.TrimSpace(unified) == "" {
		return Stat{}, nil
	}
	fd, err := diff.ParseFileDiff([]byte(unified))
	if err != nil {
		return Stat{}, fmt.Errorf("parsing unified diff: %w", err)
	}
	st := fd.Stat()
	return Stat{
		Added:   int(st.Added),
		Deleted: int(st.Deleted),
		Changed: int(st.Changed),
	}, nil
}

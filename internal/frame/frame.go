// Package frame provides a small column-oriented table of float64 series.
// It is the in-memory representation every merge, filter, and comparison
// operation works on. Missing values are NaN.
package frame

import (
	"fmt"
	"math"
	"sort"
)

// Frame holds named columns of equal length. Column order is preserved.
type Frame struct {
	cols []string
	data map[string][]float64
	rows int
}

// New creates an empty frame with no columns and no rows.
func New() *Frame {
	return &Frame{data: make(map[string][]float64)}
}

// FromColumns builds a frame from ordered column names and their values.
// All columns must have the same length.
func FromColumns(cols []string, data map[string][]float64) (*Frame, error) {
	f := New()
	for _, name := range cols {
		values, ok := data[name]
		if !ok {
			return nil, fmt.Errorf("column %q has no values", name)
		}
		if err := f.SetColumn(name, values); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// NumRows returns the number of rows.
func (f *Frame) NumRows() int { return f.rows }

// NumCols returns the number of columns.
func (f *Frame) NumCols() int { return len(f.cols) }

// Empty reports whether the frame has no rows or no columns.
func (f *Frame) Empty() bool { return f.rows == 0 || len(f.cols) == 0 }

// Columns returns the column names in order. The slice is a copy.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.cols))
	copy(out, f.cols)
	return out
}

// HasColumn reports whether the named column exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.data[name]
	return ok
}

// Column returns the values of the named column. The returned slice is
// shared with the frame; callers must not mutate it.
func (f *Frame) Column(name string) ([]float64, bool) {
	values, ok := f.data[name]
	return values, ok
}

// ColumnCopy returns a copy of the named column's values, or nil if absent.
func (f *Frame) ColumnCopy(name string) []float64 {
	values, ok := f.data[name]
	if !ok {
		return nil
	}
	out := make([]float64, len(values))
	copy(out, values)
	return out
}

// SetColumn sets or adds a column. New columns on a non-empty frame must
// match the existing row count; the first column defines it.
func (f *Frame) SetColumn(name string, values []float64) error {
	if len(f.cols) > 0 && len(values) != f.rows {
		return fmt.Errorf("column %q has %d values, frame has %d rows", name, len(values), f.rows)
	}
	if _, exists := f.data[name]; !exists {
		f.cols = append(f.cols, name)
	}
	f.data[name] = values
	f.rows = len(values)
	return nil
}

// RenameColumn renames a column in place, keeping its position.
func (f *Frame) RenameColumn(oldName, newName string) error {
	values, ok := f.data[oldName]
	if !ok {
		return fmt.Errorf("column %q does not exist", oldName)
	}
	if oldName == newName {
		return nil
	}
	if _, exists := f.data[newName]; exists {
		return fmt.Errorf("column %q already exists", newName)
	}
	for i, c := range f.cols {
		if c == oldName {
			f.cols[i] = newName
			break
		}
	}
	delete(f.data, oldName)
	f.data[newName] = values
	return nil
}

// DropColumn removes a column if present.
func (f *Frame) DropColumn(name string) {
	if _, ok := f.data[name]; !ok {
		return
	}
	delete(f.data, name)
	for i, c := range f.cols {
		if c == name {
			f.cols = append(f.cols[:i], f.cols[i+1:]...)
			break
		}
	}
	if len(f.cols) == 0 {
		f.rows = 0
	}
}

// Select returns a new frame with only the named columns, in the given
// order. Absent columns are skipped.
func (f *Frame) Select(names []string) *Frame {
	out := New()
	for _, name := range names {
		if values, ok := f.data[name]; ok {
			cp := make([]float64, len(values))
			copy(cp, values)
			_ = out.SetColumn(name, cp)
		}
	}
	return out
}

// Copy returns a deep copy of the frame.
func (f *Frame) Copy() *Frame {
	out := New()
	for _, name := range f.cols {
		cp := make([]float64, len(f.data[name]))
		copy(cp, f.data[name])
		_ = out.SetColumn(name, cp)
	}
	return out
}

// Filter returns a new frame containing the rows where mask is true.
// Row order is preserved.
func (f *Frame) Filter(mask []bool) (*Frame, error) {
	if len(mask) != f.rows {
		return nil, fmt.Errorf("mask has %d entries, frame has %d rows", len(mask), f.rows)
	}
	out := New()
	for _, name := range f.cols {
		src := f.data[name]
		kept := make([]float64, 0, f.rows)
		for i, keep := range mask {
			if keep {
				kept = append(kept, src[i])
			}
		}
		_ = out.SetColumn(name, kept)
	}
	return out, nil
}

// SortBy returns a new frame with rows stably sorted ascending by the named
// column. NaN values sort last. If the column is absent the frame is
// returned as a copy, unsorted.
func (f *Frame) SortBy(name string) *Frame {
	key, ok := f.data[name]
	if !ok {
		return f.Copy()
	}
	idx := make([]int, f.rows)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		va, vb := key[idx[a]], key[idx[b]]
		if math.IsNaN(va) {
			return false
		}
		if math.IsNaN(vb) {
			return true
		}
		return va < vb
	})
	return f.reorder(idx)
}

func (f *Frame) reorder(idx []int) *Frame {
	out := New()
	for _, name := range f.cols {
		src := f.data[name]
		values := make([]float64, len(idx))
		for i, j := range idx {
			values[i] = src[j]
		}
		_ = out.SetColumn(name, values)
	}
	return out
}

// AppendRows returns a new frame with other's rows appended below f's.
// The result has the union of both column sets; values absent on either
// side are NaN.
func (f *Frame) AppendRows(other *Frame) *Frame {
	out := New()
	cols := f.Columns()
	for _, name := range other.cols {
		if !f.HasColumn(name) {
			cols = append(cols, name)
		}
	}
	total := f.rows + other.rows
	for _, name := range cols {
		values := make([]float64, 0, total)
		if src, ok := f.data[name]; ok {
			values = append(values, src...)
		} else {
			values = appendNaN(values, f.rows)
		}
		if src, ok := other.data[name]; ok {
			values = append(values, src...)
		} else {
			values = appendNaN(values, other.rows)
		}
		_ = out.SetColumn(name, values)
	}
	return out
}

func appendNaN(values []float64, n int) []float64 {
	for i := 0; i < n; i++ {
		values = append(values, math.NaN())
	}
	return values
}

// NaNs returns a slice of n NaN values.
func NaNs(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

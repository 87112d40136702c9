// Package dataset loads the mushroom CSV table.
//
// The first line is the header; every following line is one record of raw
// categorical values. The table is read-only after loading.
package dataset

import (
	"encoding/csv"
	"io"
	"math/rand"
	"os"

	"github.com/YuminosukeSato/mantar/pkg/errors"
)

// ClassColumn is the target column of the mushroom dataset.
const ClassColumn = "class"

// Table is a loaded CSV: header plus rows of raw strings.
type Table struct {
	// Path is where the table was read from ("" for readers).
	Path   string
	Header []string
	Rows   [][]string

	index map[string]int
}

// ValueCount is one entry of ValueCounts.
type ValueCount struct {
	Value string
	Count int
}

// Load reads the CSV at path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewDatasetError(path, 0, "cannot open", err)
	}
	defer f.Close()

	return read(path, f)
}

// Read reads a CSV table from r.
func Read(r io.Reader) (*Table, error) {
	return read("", r)
}

func read(path string, r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.NewDatasetError(path, 0, "empty file", errors.ErrEmptyData)
	}
	if err != nil {
		return nil, errors.NewDatasetError(path, 1, "malformed header", err)
	}

	t := &Table{
		Path:   path,
		Header: header,
		index:  make(map[string]int, len(header)),
	}
	for j, name := range header {
		if _, dup := t.index[name]; dup {
			return nil, errors.NewDatasetError(path, 1, "duplicate column "+name, nil)
		}
		t.index[name] = j
	}

	// FieldsPerRecord is fixed by the header, so ragged rows fail here.
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			line := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return nil, errors.NewDatasetError(path, line, "malformed row", err)
		}
		t.Rows = append(t.Rows, rec)
	}

	if len(t.Rows) == 0 {
		return nil, errors.NewDatasetError(path, 1, "header without rows", errors.ErrEmptyData)
	}
	return t, nil
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of a column in the header.
func (t *Table) ColumnIndex(name string) (int, bool) {
	j, ok := t.index[name]
	return j, ok
}

// Column returns a copy of one column's values in row order.
func (t *Table) Column(name string) ([]string, error) {
	j, ok := t.index[name]
	if !ok {
		return nil, errors.NewDatasetError(t.Path, 0, "no column "+name, nil)
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[j]
	}
	return out, nil
}

// ValueCounts returns the frequency of every distinct value of a column,
// in order of first appearance.
func (t *Table) ValueCounts(name string) ([]ValueCount, error) {
	values, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	pos := make(map[string]int)
	var counts []ValueCount
	for _, v := range values {
		i, ok := pos[v]
		if !ok {
			i = len(counts)
			pos[v] = i
			counts = append(counts, ValueCount{Value: v})
		}
		counts[i].Count++
	}
	return counts, nil
}

// Sample returns n distinct row indices drawn uniformly. When n exceeds the
// table size every row is returned in shuffled order. A nil rng uses the
// global source.
func (t *Table) Sample(n int, rng *rand.Rand) []int {
	if n <= 0 {
		return nil
	}
	perm := rand.Perm
	if rng != nil {
		perm = rng.Perm
	}
	idx := perm(len(t.Rows))
	if n < len(idx) {
		idx = idx[:n]
	}
	return idx
}

package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Normalize converts a legacy table of the form {"name": [[λ1, λ2, w], ...]}
// into a Document with null descriptions, sorted by node count.
func Normalize(r io.Reader) (*Document, error) {
	doc := &Document{}
	err := decodeObject(json.NewDecoder(r), func(key string, dec *json.Decoder) error {
		var data [][]float64
		if err := dec.Decode(&data); err != nil {
			return fmt.Errorf("rule %q: %w", key, err)
		}
		doc.Entries = append(doc.Entries, Entry{Key: key, Data: data})
		return nil
	})
	if err != nil {
		return nil, err
	}
	SortByNodeCount(doc)
	return doc, nil
}

// SortByNodeCount orders entries by ascending number of nodes. Rules with the
// same count keep their relative order.
func SortByNodeCount(doc *Document) {
	sort.SliceStable(doc.Entries, func(i, j int) bool {
		return len(doc.Entries[i].Data) < len(doc.Entries[j].Data)
	})
}

// WeightSum returns the total weight of an entry. Exact rules sum to 1/2,
// the area of the reference triangle.
func (e Entry) WeightSum() float64 {
	w := make([]float64, 0, len(e.Data))
	for _, row := range e.Data {
		if len(row) > 2 {
			w = append(w, row[2])
		}
	}
	return floats.Sum(w)
}

// ReadFile decodes the document stored at path.
func ReadFile(path string) (*Document, error) {
	return readDocument(path)
}

// WriteFile stores the document at path as indented JSON, replacing the file
// atomically.
func WriteFile(path string, doc *Document) error {
	b, err := doc.MarshalJSON()
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, b, "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), ".triquad-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(out.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

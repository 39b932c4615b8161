package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Entry is one rule of the source document. Each Data row is [λ1, λ2, weight].
type Entry struct {
	Key         string
	Data        [][]float64
	Description *string
}

type entryBody struct {
	Data        [][]float64 `json:"data"`
	Description *string     `json:"description"`
}

// Document is the source formula table keyed by rule name. Entries keep the
// order in which they appear in the JSON object.
type Document struct {
	Entries []Entry
}

// DecodeDocument reads a document of the form
//
//	{"name": {"data": [[λ1, λ2, w], ...], "description": "..."}, ...}
//
// A repeated key replaces the earlier value but keeps its position.
func DecodeDocument(r io.Reader) (*Document, error) {
	doc := &Document{}
	index := make(map[string]int)
	err := decodeObject(json.NewDecoder(r), func(key string, dec *json.Decoder) error {
		var body entryBody
		if err := dec.Decode(&body); err != nil {
			return fmt.Errorf("rule %q: %w", key, err)
		}
		e := Entry{Key: key, Data: body.Data, Description: body.Description}
		if i, ok := index[key]; ok {
			doc.Entries[i] = e
			return nil
		}
		index[key] = len(doc.Entries)
		doc.Entries = append(doc.Entries, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// MarshalJSON encodes the document preserving entry order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range d.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		data := e.Data
		if data == nil {
			data = [][]float64{}
		}
		body, err := json.Marshal(entryBody{Data: data, Description: e.Description})
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", e.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// decodeObject walks the members of a JSON object in order, handing each
// value to fn which must consume it from dec.
func decodeObject(dec *json.Decoder, fn func(key string, dec *json.Decoder) error) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("document must be a JSON object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("reading document: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		if err := fn(key, dec); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("reading document: %w", err)
	}
	return nil
}

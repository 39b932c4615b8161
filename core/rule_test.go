package triquad_test

import (
	"encoding/json"
	"errors"
	"testing"

	triquad "github.com/triquad/triquad/core"
)

func TestNode_JSON(t *testing.T) {
	b, err := json.Marshal(triquad.Node{L1: 0.25, L2: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "[0.25,0.5]" {
		t.Fatalf("unexpected encoding %s", b)
	}

	var nodes []triquad.Node
	if err := json.Unmarshal([]byte(`[[0.1,0.2],[0.3,0.4,0.5]]`), &nodes); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []triquad.Node{{0.1, 0.2}, {0.3, 0.4}}
	if len(nodes) != 2 || nodes[0] != want[0] || nodes[1] != want[1] {
		t.Fatalf("got %v, want %v", nodes, want)
	}
}

func TestNode_JSONRejectsShortArrays(t *testing.T) {
	inputs := []string{`[[0.1]]`, `[[]]`, `[{"x":1}]`, `[["a","b"]]`}
	for _, in := range inputs {
		var nodes []triquad.Node
		if err := json.Unmarshal([]byte(in), &nodes); err == nil {
			t.Errorf("expected error decoding %s", in)
		}
	}
}

func TestRule_Validate(t *testing.T) {
	r := triquad.Rule{Name: "bad", Nodes: []triquad.Node{{0, 0}, {1, 0}}, Weights: []float64{1}}
	if err := r.Validate(); !errors.Is(err, triquad.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	r.Weights = append(r.Weights, 1)
	if err := r.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestError_KindHelpers(t *testing.T) {
	err := &triquad.Error{Op: "load", Kind: triquad.KindSourceUnavailable, Msg: "no source"}
	wrapped := errors.Join(errors.New("context"), err)

	if !errors.Is(wrapped, triquad.ErrSourceUnavailable) {
		t.Fatalf("wrapped error should match its sentinel")
	}
	if errors.Is(wrapped, triquad.ErrParse) {
		t.Fatalf("wrapped error should not match other sentinels")
	}
	if !triquad.IsKind(wrapped, triquad.KindSourceUnavailable) {
		t.Fatalf("IsKind should see through wrapping")
	}
	if triquad.KindOf(errors.New("plain")) != "" {
		t.Fatalf("plain errors have no kind")
	}
	if err.Error() != "no source" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

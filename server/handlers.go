package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	triquad "github.com/triquad/triquad/core"
	"github.com/triquad/triquad/render"
)

const (
	msgBadVertices = "Invalid or missing vertices data. Expecting 3 vertices."
	msgMissingCalc = "Missing function string, nodes, or weights"
)

// vertex fields are pointers so that a missing coordinate is detected.
type vertex struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// Nodes and weights stay raw until the vertices are checked.
type plotRequest struct {
	Vertices  []vertex        `json:"vertices"`
	Nodes     json.RawMessage `json:"nodes"`
	NodeColor string          `json:"node_color"`
	EdgeColor string          `json:"edge_color"`
	FillColor string          `json:"fill_color"`
	ShowAxes  *bool           `json:"show_axes"`
}

type plotResponse struct {
	ImageData string `json:"image_data"`
}

type calculateRequest struct {
	Vertices []vertex        `json:"vertices"`
	FuncStr  string          `json:"func_str"`
	Nodes    json.RawMessage `json:"nodes"`
	Weights  json.RawMessage `json:"weights"`
}

type calculateResponse struct {
	Result float64 `json:"result"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Service) handleFormulas(w http.ResponseWriter, r *http.Request) {
	c, err := s.loader.Load(r.Context())
	if err != nil {
		s.logger.Error("api.formulas", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Service) handlePlot(w http.ResponseWriter, r *http.Request) {
	var req plotRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, ok := triangleOf(req.Vertices)
	if !ok {
		writeError(w, http.StatusBadRequest, msgBadVertices)
		return
	}

	nodes, err := decodeField[[]triquad.Node]("nodes", req.Nodes)
	if err != nil {
		s.fail(w, "api.plot", err)
		return
	}

	opts := render.DefaultOptions()
	setColor(&opts.NodeColor, req.NodeColor)
	setColor(&opts.EdgeColor, req.EdgeColor)
	setColor(&opts.FillColor, req.FillColor)
	if req.ShowAxes != nil {
		opts.ShowAxes = *req.ShowAxes
	}

	png, err := render.RenderPNG(t, nodes, opts)
	if err != nil {
		s.fail(w, "api.plot", err)
		return
	}
	writeJSON(w, http.StatusOK, plotResponse{
		ImageData: base64.StdEncoding.EncodeToString(png),
	})
}

func (s *Service) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	t, ok := triangleOf(req.Vertices)
	if !ok {
		writeError(w, http.StatusBadRequest, msgBadVertices)
		return
	}
	if req.FuncStr == "" || isNull(req.Nodes) || isNull(req.Weights) {
		writeError(w, http.StatusBadRequest, msgMissingCalc)
		return
	}
	nodes, err := decodeField[[]triquad.Node]("nodes", req.Nodes)
	if err != nil {
		s.fail(w, "api.calculate", err)
		return
	}
	weights, err := decodeField[[]float64]("weights", req.Weights)
	if err != nil {
		s.fail(w, "api.calculate", err)
		return
	}

	result, err := triquad.Evaluate(t, req.FuncStr, nodes, weights)
	if err != nil {
		s.fail(w, "api.calculate", err)
		return
	}
	s.logger.Debug("api.calculate", "func", req.FuncStr, "nodes", len(nodes), "result", result)
	writeJSON(w, http.StatusOK, calculateResponse{Result: result})
}

// decode reads a JSON body bounded by the configured size.
func (s *Service) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return errors.New("empty request body")
		default:
			return fmt.Errorf("invalid JSON body: %v", err)
		}
	}
	return nil
}

// isNull reports whether a field was absent or null.
func isNull(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	return len(v) == 0 || bytes.Equal(v, []byte("null"))
}

// decodeField decodes a deferred request field. Absent or null yields the
// zero value.
func decodeField[T any](name string, raw json.RawMessage) (T, error) {
	var v T
	if isNull(raw) {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, &triquad.Error{
			Op:   "api.decode",
			Kind: triquad.KindValidation,
			Msg:  fmt.Sprintf("invalid %s", name),
			Err:  err,
		}
	}
	return v, nil
}

// fail writes err with the status of its kind. Failures that are not the
// caller's fault are logged.
func (s *Service) fail(w http.ResponseWriter, op string, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(op, "err", err)
	} else {
		s.logger.Debug(op, "kind", triquad.KindOf(err), "err", err)
	}
	writeError(w, status, err.Error())
}

func statusOf(err error) int {
	switch triquad.KindOf(err) {
	case triquad.KindValidation, triquad.KindParse, triquad.KindEvaluation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func triangleOf(vs []vertex) (triquad.Triangle, bool) {
	var t triquad.Triangle
	if len(vs) != len(t) {
		return t, false
	}
	for i, v := range vs {
		if v.X == nil || v.Y == nil {
			return t, false
		}
		t[i] = triquad.Point{X: *v.X, Y: *v.Y}
	}
	return t, true
}

// setColor keeps the default when the request leaves the colour empty.
func setColor(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(b, '\n'))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	b, _ := json.Marshal(errorResponse{Error: msg})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(b, '\n'))
}

package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	triquad "github.com/triquad/triquad/core"
	"github.com/triquad/triquad/internal/logger"
)

// DefaultURL is the published copy of the formula table.
const DefaultURL = "https://hsmkhexo.s3.ap-northeast-1.amazonaws.com/other/triangle_formula.json"

// maxDocumentSize bounds how much of a remote response is read.
const maxDocumentSize = 8 << 20

//go:embed triangle_formula.json
var embedded []byte

// Embedded returns the formula document shipped with the binary.
func Embedded() (*Document, error) {
	return DecodeDocument(bytes.NewReader(embedded))
}

// Loader fetches the formula table from a remote URL and falls back to a local
// copy. It keeps no state between calls: every Load fetches again.
type Loader struct {
	// URL of the remote document. Empty disables the remote attempt.
	URL string
	// LocalPath of the fallback document. Empty uses the embedded table.
	LocalPath string
	// Timeout bounds the remote attempt on top of the client's own timeout.
	Timeout time.Duration

	client *http.Client
	logger *slog.Logger
}

// NewLoader returns a loader using client for the remote attempt.
// A nil client uses http.DefaultClient, a nil logger discards output.
func NewLoader(url, localPath string, timeout time.Duration, client *http.Client, log *slog.Logger) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Loader{
		URL:       url,
		LocalPath: localPath,
		Timeout:   timeout,
		client:    client,
		logger:    log,
	}
}

// Load makes one remote attempt and, if that fails for any reason, one local
// attempt. When both fail the returned error has kind source_unavailable and
// wraps both causes.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	c, remoteErr := l.LoadRemote(ctx)
	if remoteErr == nil {
		return c, nil
	}
	l.logger.Warn("catalog.remote_failed", "url", l.URL, "err", remoteErr)

	c, localErr := l.LoadLocal()
	if localErr == nil {
		l.logger.Info("catalog.local_fallback", "path", l.localName(), "rules", c.Len())
		return c, nil
	}
	l.logger.Error("catalog.unavailable", "path", l.localName(), "err", localErr)

	return nil, &triquad.Error{
		Op:   "catalog.load",
		Kind: triquad.KindSourceUnavailable,
		Msg:  "formula catalog unavailable",
		Err:  errors.Join(remoteErr, localErr),
	}
}

// LoadRemote fetches and transforms the remote document.
func (l *Loader) LoadRemote(ctx context.Context) (*Catalog, error) {
	if l.URL == "" {
		return nil, errors.New("remote: no url configured")
	}
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("remote: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote: %w", err)
	}
	defer resp.Body.Close()

	l.logger.Debug("catalog.remote_response",
		"url", l.URL,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("remote: unexpected status %s", resp.Status)
	}

	doc, err := DecodeDocument(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("remote: %w", err)
	}
	c, err := Transform(doc)
	if err != nil {
		return nil, fmt.Errorf("remote: %w", err)
	}
	return c, nil
}

// LoadLocal reads and transforms the local document.
func (l *Loader) LoadLocal() (*Catalog, error) {
	var (
		doc *Document
		err error
	)
	if l.LocalPath == "" {
		doc, err = Embedded()
	} else {
		doc, err = readDocument(l.LocalPath)
	}
	if err != nil {
		return nil, fmt.Errorf("local: %w", err)
	}
	c, err := Transform(doc)
	if err != nil {
		return nil, fmt.Errorf("local: %w", err)
	}
	return c, nil
}

func (l *Loader) localName() string {
	if l.LocalPath == "" {
		return "<embedded>"
	}
	return l.LocalPath
}

func readDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := DecodeDocument(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

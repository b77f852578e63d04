// Package webcam resolves the visual input for a forecast run: either the
// caller's uploaded image or a sample snapshot from a static per-spot
// catalog.
package webcam

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	_ "image/jpeg"
	_ "image/png"

	"go.uber.org/zap"

	"github.com/Dowline1/SurfSmart-AI/internal/forecast"
)

// ErrNoImage is returned when no image can be resolved for a spot. Callers
// must not start a pipeline run without an image; there is no fallback
// image.
var ErrNoImage = errors.New("no image available for location")

// Mode selects how an image is resolved.
type Mode string

const (
	// ModeUpload returns the caller-supplied blob verbatim.
	ModeUpload Mode = "upload"
	// ModeSample loads the spot's catalog sample from disk or a remote URL.
	ModeSample Mode = "sample"
	// ModeLive would capture a frame from the spot's live webcam. No catalog
	// entry carries a live URL yet, so this mode always resolves to absent;
	// it exists so a scraper can be added without changing callers.
	ModeLive Mode = "live"
)

// Entry describes one spot's image sources.
type Entry struct {
	Name       string `json:"name"`
	SamplePath string `json:"sample_path,omitempty"`
	SampleURL  string `json:"sample_url,omitempty"`
	LiveURL    string `json:"live_url,omitempty"`
}

// Supplier resolves images for surf spots.
type Supplier struct {
	client    *http.Client
	sampleDir string
	catalog   map[string]Entry
	log       *zap.SugaredLogger
}

// NewSupplier creates a Supplier with the built-in spot catalog. sampleDir
// is the directory holding local sample snapshots; the shared HTTP client
// bounds remote sample fetches.
func NewSupplier(client *http.Client, sampleDir string, log *zap.SugaredLogger) *Supplier {
	return &Supplier{
		client:    client,
		sampleDir: sampleDir,
		log:       log,
		catalog: map[string]Entry{
			"Liscannor Bay, Ireland": {Name: "Liscannor Bay", SamplePath: "liscannor_bay.jpg"},
			"Lahinch, Ireland":       {Name: "Lahinch", SamplePath: "lahinch.jpg"},
			"Bundoran, Ireland":      {Name: "Bundoran", SamplePath: "bundoran.jpg"},
		},
	}
}

// Spots lists the catalog's location keys, sorted.
func (s *Supplier) Spots() []string {
	keys := make([]string, 0, len(s.catalog))
	for k := range s.catalog {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Resolve returns the image for a spot under the given mode, or ErrNoImage
// when none can be produced. Upload mode passes the caller's blob through
// untouched; sample and live modes consult the catalog.
func (s *Supplier) Resolve(ctx context.Context, spot string, mode Mode, upload *forecast.Image) (*forecast.Image, error) {
	switch mode {
	case ModeUpload:
		if upload == nil || len(upload.Data) == 0 {
			return nil, ErrNoImage
		}
		return upload, nil

	case ModeSample:
		entry, ok := s.catalog[spot]
		if !ok {
			return nil, ErrNoImage
		}
		img, err := s.loadSample(ctx, entry)
		if err != nil {
			s.log.Warnw("sample image resolution failed", "spot", spot, "error", err)
			return nil, ErrNoImage
		}
		return img, nil

	case ModeLive:
		entry, ok := s.catalog[spot]
		if !ok || entry.LiveURL == "" {
			return nil, ErrNoImage
		}
		return nil, ErrNoImage

	default:
		return nil, fmt.Errorf("unknown image mode %q", mode)
	}
}

func (s *Supplier) loadSample(ctx context.Context, entry Entry) (*forecast.Image, error) {
	var data []byte
	var err error

	switch {
	case entry.SamplePath != "":
		data, err = os.ReadFile(filepath.Join(s.sampleDir, entry.SamplePath))
	case entry.SampleURL != "":
		data, err = s.fetchRemote(ctx, entry.SampleURL)
	default:
		return nil, fmt.Errorf("catalog entry %q has no sample source", entry.Name)
	}
	if err != nil {
		return nil, err
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode sample for %q: %w", entry.Name, err)
	}

	return &forecast.Image{Data: data, MIME: "image/" + format}, nil
}

func (s *Supplier) fetchRemote(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d fetching sample", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, 10<<20)) // 10 MB cap
}

package recognize

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danprat/ABSEN-DESA/internal/config"
)

// ErrNoFaceDetected is returned when the extraction service finds no face
// in the presented image. The request is terminal: the person at the
// kiosk simply presents their face again.
var ErrNoFaceDetected = errors.New("no face detected")

// Extractor calls the embedding-extraction service: image bytes in, a
// fixed-length vector out. The model behind it is opaque to this process.
type Extractor struct {
	baseURL string
	dim     int
	client  *http.Client
}

func NewExtractor(cfg config.ExtractorConfig) *Extractor {
	return &Extractor{
		baseURL: cfg.URL,
		dim:     cfg.Dim,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type embedRequest struct {
	Image string `json:"image"` // base64-encoded JPEG/PNG
	Mode  string `json:"mode"`  // "fast" or "accurate"
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
	Error     string    `json:"error,omitempty"`
}

// Extract requests an embedding for the image. Accurate mode trades
// latency for a more stable vector and is meant for enrollment shots;
// kiosk recognition uses fast mode.
func (x *Extractor) Extract(ctx context.Context, image []byte, accurate bool) ([]float32, error) {
	mode := "fast"
	if accurate {
		mode = "accurate"
	}

	body, err := json.Marshal(embedRequest{
		Image: base64.StdEncoding.EncodeToString(image),
		Mode:  mode,
	})
	if err != nil {
		return nil, fmt.Errorf("encode embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, x.baseURL+"/api/v1/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := x.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call extractor: %w", err)
	}
	defer resp.Body.Close()

	var result embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode embed response (status %d): %w", resp.StatusCode, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnprocessableEntity, result.Error == "no_face":
		return nil, ErrNoFaceDetected
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("extractor returned status %d: %s", resp.StatusCode, result.Error)
	}

	if len(result.Embedding) != x.dim {
		return nil, fmt.Errorf("extractor returned %d-dimensional vector, want %d", len(result.Embedding), x.dim)
	}
	return result.Embedding, nil
}

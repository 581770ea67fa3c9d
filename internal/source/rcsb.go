package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pdbselect/internal/model"
	"pdbselect/internal/pdb"
)

const (
	// DefaultBaseURL is the RCSB file download endpoint.
	DefaultBaseURL = "https://files.rcsb.org/download"

	// DefaultCacheDir is where raw structure files are kept between runs.
	DefaultCacheDir = "data/raw"

	// DefaultTimeout bounds a single download request.
	DefaultTimeout = 30 * time.Second

	fileExt = ".pdb"
)

// Config holds RCSBSource settings. Zero values fall back to the defaults
// above.
type Config struct {
	BaseURL  string
	CacheDir string
	Timeout  time.Duration
}

// RCSBSource fetches structure files from the RCSB download service and
// keeps a flat per-id file cache so repeated evaluations of the same
// protein hit the network at most once.
type RCSBSource struct {
	cfg    Config
	client *http.Client
	log    *slog.Logger
}

// NewRCSBSource creates the source and its cache directory.
func NewRCSBSource(cfg Config, log *slog.Logger) (*RCSBSource, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if cfg.CacheDir == "" {
		cfg.CacheDir = DefaultCacheDir
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &RCSBSource{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log,
	}, nil
}

func (s *RCSBSource) cachePath(id string) string {
	return filepath.Join(s.cfg.CacheDir, id+fileExt)
}

// FetchRaw returns the structure file bytes for the id. IDs are
// case-insensitive; the cache and the download URL both use the lowercase
// form.
func (s *RCSBSource) FetchRaw(ctx context.Context, id string) ([]byte, error) {
	id = strings.ToLower(id)
	path := s.cachePath(id)
	if data, err := os.ReadFile(path); err == nil {
		s.log.Debug("cache hit", "id", id, "path", path)
		return data, nil
	}

	url := fmt.Sprintf("%s/%s%s", s.cfg.BaseURL, id, fileExt)
	s.log.Info("downloading structure", "id", id, "url", url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", id, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{ID: id, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response %s: %w", id, err)
	}
	// Plain write: a crash mid-write can leave a truncated file that a
	// later run will read back as a complete cache entry.
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write cache %s: %w", path, err)
	}
	return data, nil
}

func (s *RCSBSource) structure(ctx context.Context, id string) (*pdb.Structure, error) {
	data, err := s.FetchRaw(ctx, id)
	if err != nil {
		return nil, err
	}
	st, err := pdb.Parse(data)
	if err != nil {
		return nil, &ParseError{ID: id, Err: err}
	}
	return st, nil
}

// FunctionSummary returns header metadata for the id. Text fields are
// lowercased so downstream keyword matching is case-insensitive.
func (s *RCSBSource) FunctionSummary(ctx context.Context, id string) (model.FunctionSummary, error) {
	id = strings.ToLower(id)
	st, err := s.structure(ctx, id)
	if err != nil {
		return model.FunctionSummary{}, err
	}
	return summarize(id, &st.Header), nil
}

func summarize(id string, h *pdb.Header) model.FunctionSummary {
	desc := h.Title
	if desc == "" {
		desc = h.Classification
	}
	keywords := make([]string, 0, len(h.Keywords))
	for _, kw := range h.Keywords {
		keywords = append(keywords, strings.ToLower(kw))
	}
	return model.FunctionSummary{
		ID:          id,
		Description: strings.ToLower(desc),
		Resolution:  h.Resolution,
		Method:      strings.ToLower(h.Method),
		Keywords:    keywords,
		// EC assignments are not present in structure file headers.
		ECNumbers: []string{},
	}
}

// Validate evaluates the structure for the id against the criteria.
// Any fetch or decode failure is reported as a failed result with the
// error text as the reason.
func (s *RCSBSource) Validate(ctx context.Context, id string, c model.Criteria) model.ValidationResult {
	id = strings.ToLower(id)
	st, err := s.structure(ctx, id)
	if err != nil {
		return failResult(err.Error())
	}

	if st.Header.Resolution == nil {
		return failResult(fmt.Sprintf("resolution unavailable (max %.2f)", c.MaxResolution))
	}
	resolution := *st.Header.Resolution
	if resolution > c.MaxResolution {
		return failResult(fmt.Sprintf("resolution %.2f exceeds maximum %.2f", resolution, c.MaxResolution))
	}

	count := 0
	for _, m := range st.Models {
		for _, chain := range m.Chains {
			for _, res := range chain.Residues {
				if !res.Het {
					count++
				}
			}
		}
	}
	if count < c.MinLength {
		return failResult(fmt.Sprintf("too short: %d residues < %d", count, c.MinLength))
	}
	if count > c.MaxLength {
		return failResult(fmt.Sprintf("too long: %d residues > %d", count, c.MaxLength))
	}

	annotated := false
	return model.ValidationResult{
		Passed: true,
		Info: model.ValidationInfo{
			Resolution:            &resolution,
			ResidueCount:          &count,
			HasFunctionAnnotation: &annotated,
		},
	}
}

func failResult(reason string) model.ValidationResult {
	return model.ValidationResult{Info: model.ValidationInfo{Reason: reason}}
}

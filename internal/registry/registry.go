// Package registry maintains the persistent record of which proteins have
// been evaluated for dataset inclusion and how the evaluation came out.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pdbselect/internal/model"
	"pdbselect/internal/source"
)

// Registry maps lowercase protein ids to their evaluation records and
// persists the mapping as an indented JSON file. Not safe for concurrent
// use; the file is single-writer.
type Registry struct {
	path     string
	src      source.DataSource
	criteria model.Criteria
	log      *slog.Logger
	evalLog  *EvalLog

	proteins map[string]model.Evaluation
}

// New creates a registry backed by the JSON file at path and loads any
// existing entries.
func New(path string, src source.DataSource, criteria model.Criteria, log *slog.Logger) (*Registry, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create registry dir: %w", err)
	}
	r := &Registry{
		path:     path,
		src:      src,
		criteria: criteria,
		log:      log,
		proteins: make(map[string]model.Evaluation),
	}
	if err := r.Load(); err != nil {
		return nil, err
	}
	return r, nil
}

// SetEvalLog attaches an append-only evaluation history. Recording is best
// effort: a history write failure never fails an evaluation.
func (r *Registry) SetEvalLog(l *EvalLog) { r.evalLog = l }

// Load replaces the in-memory mapping with the file contents. A missing
// file leaves the registry empty; a file that exists but cannot be decoded
// is an error.
func (r *Registry) Load() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.proteins = make(map[string]model.Evaluation)
			return nil
		}
		return fmt.Errorf("read registry: %w", err)
	}
	proteins := make(map[string]model.Evaluation)
	if err := json.Unmarshal(data, &proteins); err != nil {
		return fmt.Errorf("decode registry %s: %w", r.path, err)
	}
	r.proteins = proteins
	r.log.Debug("registry loaded", "path", r.path, "proteins", len(r.proteins))
	return nil
}

// Save writes the whole mapping to the registry file, replacing its
// previous contents. Callers decide when to persist; Add never saves on
// its own.
func (r *Registry) Save() error {
	data, err := json.MarshalIndent(r.proteins, "", "  ")
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write registry: %w", err)
	}
	r.log.Debug("registry saved", "path", r.path, "proteins", len(r.proteins))
	return nil
}

// Add evaluates the id and records the verdict. Ids are case-insensitive.
// An id already recorded is returned unchanged without touching the source,
// whatever its verdict was; Reevaluate forces a fresh run. Failures are
// data: they come back inside the Evaluation, never as an error, so a batch
// over mixed ids always completes.
func (r *Registry) Add(ctx context.Context, id string) model.Evaluation {
	id = strings.ToLower(id)
	if ev, ok := r.proteins[id]; ok {
		r.log.Debug("already evaluated", "id", id, "meets_criteria", ev.MeetsCriteria)
		return ev
	}
	return r.evaluate(ctx, id, false)
}

// Reevaluate runs a fresh evaluation for the id and replaces any stored
// record.
func (r *Registry) Reevaluate(ctx context.Context, id string) model.Evaluation {
	return r.evaluate(ctx, strings.ToLower(id), true)
}

func (r *Registry) evaluate(ctx context.Context, id string, forced bool) model.Evaluation {
	now := time.Now().UTC()
	res := r.src.Validate(ctx, id, r.criteria)

	ev := model.Evaluation{
		ProteinID:     id,
		MeetsCriteria: res.Passed,
		EvaluatedAt:   now,
	}

	// The summary is read for every evaluation, rejected ones included: a
	// protein that misses the thresholds still gets its metadata recorded.
	// When the summary itself cannot be read the record is a bare failure
	// carrying only the error text.
	summary, err := r.src.FunctionSummary(ctx, id)
	if err != nil {
		ev.MeetsCriteria = false
		ev.Error = err.Error()
	} else {
		info := res.Info
		ev.ValidationInfo = &info
		ev.FunctionInfo = &summary
	}

	switch {
	case ev.MeetsCriteria:
		r.log.Info("protein accepted", "id", id)
	case ev.Error != "":
		r.log.Warn("evaluation failed", "id", id, "error", ev.Error)
	default:
		r.log.Info("protein rejected", "id", id, "reason", res.Info.Reason)
	}

	r.proteins[id] = ev
	r.record(ctx, ev, forced)
	return ev
}

func (r *Registry) record(ctx context.Context, ev model.Evaluation, forced bool) {
	if r.evalLog == nil {
		return
	}
	rec := EvalRecord{
		ProteinID:     ev.ProteinID,
		MeetsCriteria: ev.MeetsCriteria,
		Error:         ev.Error,
		Forced:        forced,
		EvaluatedAt:   ev.EvaluatedAt,
	}
	if ev.ValidationInfo != nil {
		rec.Reason = ev.ValidationInfo.Reason
	}
	if err := r.evalLog.Record(ctx, rec); err != nil {
		r.log.Warn("history append failed", "id", ev.ProteinID, "error", err)
	}
}

// Close releases the attached evaluation log, if any.
func (r *Registry) Close() error {
	if r.evalLog == nil {
		return nil
	}
	return r.evalLog.Close()
}

// Get returns the stored evaluation for the id.
func (r *Registry) Get(id string) (model.Evaluation, bool) {
	ev, ok := r.proteins[strings.ToLower(id)]
	return ev, ok
}

// Remove drops the id from the registry and reports whether it was present.
func (r *Registry) Remove(id string) bool {
	id = strings.ToLower(id)
	if _, ok := r.proteins[id]; !ok {
		return false
	}
	delete(r.proteins, id)
	r.log.Debug("protein removed", "id", id)
	return true
}

// Valid returns the evaluations that met the criteria.
func (r *Registry) Valid() map[string]model.Evaluation {
	valid := make(map[string]model.Evaluation)
	for id, ev := range r.proteins {
		if ev.MeetsCriteria {
			valid[id] = ev
		}
	}
	return valid
}

// All returns a copy of every stored evaluation.
func (r *Registry) All() map[string]model.Evaluation {
	all := make(map[string]model.Evaluation, len(r.proteins))
	for id, ev := range r.proteins {
		all[id] = ev
	}
	return all
}

// Summary is the registry-level diagnostic snapshot.
type Summary struct {
	TotalProteinsEvaluated int            `json:"total_proteins_evaluated"`
	ValidProteins          int            `json:"valid_proteins"`
	InvalidProteins        int            `json:"invalid_proteins"`
	SelectionCriteria      model.Criteria `json:"selection_criteria"`
	RegistryFile           string         `json:"registry_file"`
}

// Summary reports entry counts, the criteria in force, and the backing
// file path.
func (r *Registry) Summary() Summary {
	valid := 0
	for _, ev := range r.proteins {
		if ev.MeetsCriteria {
			valid++
		}
	}
	return Summary{
		TotalProteinsEvaluated: len(r.proteins),
		ValidProteins:          valid,
		InvalidProteins:        len(r.proteins) - valid,
		SelectionCriteria:      r.criteria,
		RegistryFile:           r.path,
	}
}

package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/history"
	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/logging"
	"github.com/RbnHoodX/csv-to-shopify-flow-sub000/internal/pipeline"
)

var errRunNotFound = errors.New("run not found")

// runSummary is the JSON payload describing one completed conversion.
type runSummary struct {
	RunID      string           `json:"runId"`
	Vendor     string           `json:"vendor,omitempty"`
	Valid      bool             `json:"valid"`
	Errors     []string         `json:"errors,omitempty"`
	Counts     pipeline.Counts  `json:"counts"`
	Events     []pipeline.Event `json:"events,omitempty"`
	DurationMS int64            `json:"durationMs"`
	ExportURL  string           `json:"exportUrl"`
}

func summarize(res *pipeline.Result, vendor string, includeEvents bool) runSummary {
	s := runSummary{
		RunID:      res.RunID,
		Vendor:     vendor,
		Valid:      res.Report.IsValid,
		Errors:     res.Report.Errors,
		Counts:     res.Counts,
		DurationMS: res.Duration.Milliseconds(),
		ExportURL:  "/api/runs/" + res.RunID + "/export.csv",
	}
	if includeEvents {
		s.Events = res.Events
	}
	return s
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleConvert runs one conversion from the uploaded CSV inputs.
//
// Form fields:
//
//	master   - grouped master CSV (required)
//	natural  - natural diamond rule table (optional)
//	labgrown - lab-grown diamond rule table (optional)
//	nostones - no-stones metal table (optional)
//	vendor   - vendor name override (optional)
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, 4*maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		s.respondError(w, r, fmt.Errorf("parsing multipart form: %w", err), http.StatusBadRequest)
		return
	}

	master, err := formFileString(r, "master", maxSize)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if master == "" {
		s.respondError(w, r, errors.New("no master file provided"), http.StatusBadRequest)
		return
	}

	inputs := pipeline.Inputs{Master: master}
	if inputs.Natural, err = formFileString(r, "natural", maxSize); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if inputs.LabGrown, err = formFileString(r, "labgrown", maxSize); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if inputs.NoStones, err = formFileString(r, "nostones", maxSize); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	vendor := r.FormValue("vendor")
	if vendor == "" {
		vendor = s.cfg.Catalog.Vendor
	}

	logger := logging.FromContext(r.Context())
	pipe := &pipeline.Pipeline{Vendor: vendor, Logger: logger}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Upload.Timeout)
	defer cancel()

	res, err := pipe.Run(ctx, inputs)
	if err != nil {
		s.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}

	s.runs.Put(res, vendor)
	s.recordHistory(r.Context(), res, vendor)

	writeJSON(w, summarize(res, vendor, true))
}

// handleListRuns returns recent runs. When a history store is configured
// it is the source of truth; otherwise the in-memory cache is listed.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		records, err := s.store.RecentRuns(r.Context(), 50)
		if err != nil {
			s.respondError(w, r, err, http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{"runs": records})
		return
	}

	cached := s.runs.List()
	summaries := make([]runSummary, 0, len(cached))
	for _, c := range cached {
		summaries = append(summaries, summarize(c.Result, c.Vendor, false))
	}
	writeJSON(w, map[string]any{"runs": summaries})
}

// handleRunDetail returns the full summary of one cached run, events included.
func (s *Server) handleRunDetail(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	cached := s.runs.Get(runID)
	if cached == nil {
		s.respondError(w, r, fmt.Errorf("%w: %s", errRunNotFound, runID), http.StatusNotFound)
		return
	}
	writeJSON(w, summarize(cached.Result, cached.Vendor, true))
}

// handleRunExport downloads the generated CSV of a cached run.
func (s *Server) handleRunExport(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	cached := s.runs.Get(runID)
	if cached == nil {
		s.respondError(w, r, fmt.Errorf("%w: %s", errRunNotFound, runID), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="shopify-products.csv"`)
	io.WriteString(w, cached.Result.CSV)
}

// recordHistory persists a run summary when a store is configured.
// Persistence failures are logged but never fail the conversion.
func (s *Server) recordHistory(ctx context.Context, res *pipeline.Result, vendor string) {
	if s.store == nil {
		return
	}

	runID, err := uuid.Parse(res.RunID)
	if err != nil {
		logging.FromContext(ctx).Error("recording run history", "run_id", res.RunID, "error", err)
		return
	}

	warnings := 0
	for _, e := range res.Events {
		if e.Level == pipeline.LevelWarning {
			warnings++
		}
	}

	rec := history.RunRecord{
		RunID:          runID,
		Vendor:         vendor,
		Groups:         res.Counts.CoreGroups,
		Variants:       res.Counts.Variants,
		FailedVariants: res.Counts.FailedVariants,
		Rows:           res.Counts.ExportRows,
		Warnings:       warnings,
		Valid:          res.Report.IsValid,
		Duration:       res.Duration,
	}
	if err := s.store.RecordRun(ctx, rec); err != nil {
		logging.FromContext(ctx).Error("recording run history", "run_id", res.RunID, "error", err)
	}
}

// formFileString reads one optional multipart file field into a string.
// A missing field yields an empty string, not an error.
func formFileString(r *http.Request, field string, maxSize int64) (string, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", fmt.Errorf("reading %s file: %w", field, err)
	}
	defer file.Close()

	data, err := readLimited(file, maxSize)
	if err != nil {
		return "", fmt.Errorf("reading %s file: %w", field, err)
	}
	return string(data), nil
}

// readLimited reads at most maxSize bytes, erroring when the input is larger.
func readLimited(f multipart.File, maxSize int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxSize {
		return nil, errors.New("request body too large")
	}
	return data, nil
}

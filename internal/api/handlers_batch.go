package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/juristext/internal/export"
	"github.com/dgallion1/juristext/internal/pipeline"
)

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	inputs := make([]pipeline.Input, 0, len(files))
	for _, fh := range files {
		in, uerr := s.readUpload(fh)
		if uerr != nil {
			jsonError(w, uerr.msg, uerr.status)
			return
		}
		inputs = append(inputs, in)
	}

	job, err := s.orchestrator.Submit(inputs)
	if err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	s.log.Info("batch queued", "job_id", job.ID, "documents", len(inputs))

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   job.ID,
		"status":   pipeline.StatusQueued,
		"total":    len(inputs),
		"poll_url": fmt.Sprintf("/api/batch/%s", job.ID),
	})
}

func (s *Server) handleBatchStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

// handleBatchCSV streams the successful results of a finished job in the
// same CSV layout the extract command writes.
func (s *Server) handleBatchCSV(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	if snap.Status == pipeline.StatusQueued || snap.Status == pipeline.StatusProcessing {
		jsonError(w, "job not finished", http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="decisoes_%s.csv"`, snap.ID))
	if err := export.WriteCSV(w, pipeline.Successes(job.Results())); err != nil {
		s.log.Error("csv export failed", "job_id", snap.ID, "error", err)
	}
}

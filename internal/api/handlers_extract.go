package api

import (
	"context"
	"net/http"
)

// handleExtract processes a single uploaded decision synchronously. A
// document that cannot be reconstructed still answers 200 with sucesso=false.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	// Extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		jsonError(w, "file is required", http.StatusBadRequest)
		return
	}
	in, uerr := s.readUpload(files[0])
	if uerr != nil {
		jsonError(w, uerr.msg, uerr.status)
		return
	}

	ctx := r.Context()
	if s.cfg.DocTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.DocTimeout)
		defer cancel()
	}

	res := s.orchestrator.Pipeline().ProcessInput(ctx, in)
	writeJSON(w, http.StatusOK, res)
}

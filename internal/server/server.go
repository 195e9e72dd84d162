// Package server exposes the local PDF extraction endpoint over HTTP,
// mirroring the collaborator contract the front-end consumes:
// POST /extract/pdf/ with a multipart "pdf" field returns per-page text,
// the page count and the suggested start page.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cardforge/cardforge/internal/config"
	"github.com/cardforge/cardforge/internal/pdfsource"
	"github.com/cardforge/cardforge/pkg/logger"
)

type Server struct {
	extractor *pdfsource.Extractor
	maxBytes  int64
	log       *logger.Logger
}

func New(extractor *pdfsource.Extractor, cfg *config.Config, log *logger.Logger) *Server {
	return &Server{
		extractor: extractor,
		maxBytes:  cfg.Limits.MaxPDFBytes,
		log:       log,
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/extract/pdf/", s.handleExtractPDF).Methods(http.MethodPost)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	return r
}

type extractPDFResponse struct {
	Pages              []string `json:"pages"`
	TotalPages         int      `json:"total_pages"`
	SuggestedStartPage int      `json:"suggested_start_page"`
	Warning            string   `json:"warning,omitempty"`
}

func (s *Server) handleExtractPDF(w http.ResponseWriter, r *http.Request) {
	// Multipart framing adds overhead on top of the document itself.
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes+(1<<20))

	if err := r.ParseMultipartForm(s.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds the 20MB limit")
			return
		}
		s.writeError(w, http.StatusBadRequest, "malformed multipart request")
		return
	}

	file, header, err := r.FormFile("pdf")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "missing \"pdf\" file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	ex, err := s.extractor.ExtractBytes(r.Context(), data, header.Filename)
	switch {
	case errors.Is(err, pdfsource.ErrNotPDF):
		s.writeError(w, http.StatusBadRequest, "only PDF files are supported")
		return
	case errors.Is(err, pdfsource.ErrFileTooLarge):
		s.writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds the 20MB limit")
		return
	case err != nil:
		s.log.Warn("Extraction failed for %s: %v", header.Filename, err)
		s.writeError(w, http.StatusUnprocessableEntity, "failed to extract PDF, the file may be corrupted or image-only")
		return
	}

	resp := extractPDFResponse{
		Pages:              ex.Pages,
		TotalPages:         ex.TotalPages,
		SuggestedStartPage: ex.SuggestedStartPage,
	}
	if ex.LooksScanned() {
		resp.Warning = "many pages have no text, this PDF may be scanned or image-based"
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Debug("Failed to encode response: %v", err)
	}
}

// writeError uses the same {"detail": ...} envelope as the rest of the
// backend so clients share one error path.
func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, map[string]string{"detail": detail})
}

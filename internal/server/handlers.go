package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/spigell/jd-matcher/internal/ai"
	"github.com/spigell/jd-matcher/internal/extract"
)

type extractResponse struct {
	Text   string `json:"text"`
	Format string `json:"format"`
}

type cancelledResponse struct {
	Cancelled bool `json:"cancelled"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, extract.MaxFileSize+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, &extract.FileTooLargeError{Size: r.ContentLength, Limit: extract.MaxFileSize})
			return
		}
		s.writeError(w, r, fmt.Errorf("read multipart field \"file\": %w: %v", ErrBadRequest, err))
		return
	}
	defer file.Close()

	if err := extract.CheckSize(header.Size); err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("read upload: %w: %v", ErrBadRequest, err))
		return
	}

	text, err := s.extractor.Extract(r.Context(), extract.Document{
		Name: header.Filename,
		Data: data,
		Size: header.Size,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, extractResponse{Text: text.Content, Format: text.Format})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req ai.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, fmt.Errorf("decode analyze request: %w: %v", ErrBadRequest, err))
		return
	}

	entry := s.sessions.get(sessionID(r))
	result, err := entry.session.Analyze(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)

	if errors.Is(err, ai.ErrCancelled) {
		s.writeJSON(w, status, cancelledResponse{Cancelled: true})
		return
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		s.logger.Debug("request rejected", zap.String("path", r.URL.Path), zap.Error(err))
	}

	s.writeJSON(w, status, newErrorResponse(err))
}

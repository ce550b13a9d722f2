package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/claimsight/claim-analyzer/internal/common"
	"github.com/claimsight/claim-analyzer/internal/entity"
)

type analyzeRequest struct {
	// Path names a document on a volume the server can read.
	Path string `json:"path,omitempty"`
	// Text carries already-recognized document text, bypassing OCR.
	Text string `json:"text,omitempty"`
	// Name labels a raw-text submission. Optional.
	Name string `json:"name,omitempty"`
}

type analyzeResponse struct {
	JobID uuid.UUID     `json:"job_id"`
	Claim *entity.Claim `json:"claim,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteBadRequest(w, "invalid request body: %v", err)
		return
	}

	hasPath := strings.TrimSpace(req.Path) != ""
	hasText := strings.TrimSpace(req.Text) != ""
	if hasPath == hasText {
		common.WriteBadRequest(w, "exactly one of path or text is required")
		return
	}

	var (
		job   *entity.AnalysisJob
		claim *entity.Claim
		err   error
	)
	if hasPath {
		job, claim, err = s.processor.ProcessFile(r.Context(), req.Path)
	} else {
		name := req.Name
		if name == "" {
			name = "raw-text"
		}
		job, claim, err = s.processor.ProcessText(r.Context(), name, req.Text)
	}
	if err != nil {
		if job == nil {
			common.WriteInternal(w, fmt.Sprintf("analysis failed: %v", err))
			return
		}
		// job row exists with the failure recorded; report it with the id
		common.WriteJSONError(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("analysis failed for job %s: %v", job.ID, err))
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{JobID: job.ID, Claim: claim})
}

func (s *Server) handleListClaims(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 100)
	offset := queryInt(r, "offset", 0)

	claims, err := s.claims.List(r.Context(), limit, offset)
	if err != nil {
		common.WriteInternal(w, "failed to list claims")
		return
	}
	if claims == nil {
		claims = []*entity.Claim{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"claims": claims})
}

func (s *Server) handleGetClaim(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteBadRequest(w, "invalid claim id")
		return
	}

	claim, err := s.claims.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			common.WriteNotFound(w, "claim not found")
			return
		}
		common.WriteInternal(w, "failed to load claim")
		return
	}
	writeJSON(w, http.StatusOK, claim)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 500)
	offset := queryInt(r, "offset", 0)

	out, err := s.exporter.ExportClaimsXLSX(r.Context(), limit, offset)
	if err != nil {
		common.WriteInternal(w, "export failed")
		return
	}

	filename := fmt.Sprintf("claims-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.HealthCheck(r.Context(), 2*time.Second); err != nil {
		common.WriteJSONError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

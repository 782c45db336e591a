// Package chi is the HTTP transport for the search API.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/harbormind/docsearch/internal/domain"
	"github.com/harbormind/docsearch/internal/domain/search/result"
	healthuc "github.com/harbormind/docsearch/internal/usecase/health"
	searchuc "github.com/harbormind/docsearch/internal/usecase/search"
)

// requesterHeader carries the authenticated end-user identity forwarded by
// the platform gateway. Absent header means an anonymous request.
const requesterHeader = "X-User-ID"

// Error codes returned in the error envelope.
const (
	codeBadRequest            = "bad_request"
	codeNotFound              = "not_found"
	codeEmbeddingProviderDown = "embedding_provider_error"
	codeInternalError         = "internal_error"
)

// Server exposes the search endpoints.
type Server struct {
	search          *searchuc.Service
	health          *healthuc.Service
	defaultPageSize int
	logger          *zap.Logger
}

// NewServer creates an HTTP API server. defaultPageSize applies when the
// client omits the size parameter; zero falls back to the built-in default.
func NewServer(search *searchuc.Service, health *healthuc.Service, defaultPageSize int, logger *zap.Logger) *Server {
	return &Server{search: search, health: health, defaultPageSize: defaultPageSize, logger: logger}
}

// Routes mounts all handlers on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.Health)
	r.Get("/metrics", s.Metrics)
	r.Get("/api/search", s.Search)
	r.Get("/api/search/semantic", s.SemanticSearch)
}

// Search handles GET /api/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	req, err := parseSearchRequest(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	if req.Size <= 0 {
		req.Size = s.defaultPageSize
	}

	requesterID := r.Header.Get(requesterHeader)
	withFacets := r.URL.Query().Get("facets") == "true"

	var page *result.Page
	if withFacets {
		page, err = s.search.SearchWithFacets(r.Context(), req, requesterID)
	} else {
		page, err = s.search.Search(r.Context(), req, requesterID)
	}
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pageToResponse(page))
}

// SemanticSearch handles GET /api/search/semantic.
func (s *Server) SemanticSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "query parameter q is required")
		return
	}

	limit, err := parseIntParam(r.URL.Query(), "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	requesterID := r.Header.Get(requesterHeader)

	res, err := s.search.Semantic(r.Context(), query, requesterID, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, semanticToResponse(res))
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, healthResponse{
		Status: string(report.Status),
		Checks: report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// --- Response DTOs ---

type documentResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Summary       string    `json:"summary,omitempty"`
	FileName      string    `json:"fileName,omitempty"`
	FileType      string    `json:"fileType,omitempty"`
	FileSize      int64     `json:"fileSize,omitempty"`
	SharingLevel  string    `json:"sharingLevel"`
	OwnerID       string    `json:"ownerId"`
	OwnerUsername string    `json:"ownerUsername,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	GroupIDs      []string  `json:"groupIds,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Archived      bool      `json:"archived,omitempty"`
}

type bucketResponse struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type facetsResponse struct {
	Tags          []bucketResponse `json:"tags"`
	FileTypes     map[string]int64 `json:"fileTypes"`
	SharingLevels map[string]int64 `json:"sharingLevels"`
	Owners        []bucketResponse `json:"owners"`
}

type pageResponse struct {
	Items         []documentResponse `json:"items"`
	Page          int                `json:"page"`
	PageSize      int                `json:"pageSize"`
	TotalElements int64              `json:"totalElements"`
	TotalPages    int                `json:"totalPages"`
	Query         string             `json:"query,omitempty"`
	TookMs        int64              `json:"tookMs"`
	Facets        *facetsResponse    `json:"facets,omitempty"`
}

type semanticHitResponse struct {
	Document documentResponse `json:"document"`
	Score    float64          `json:"score"`
}

type semanticResponse struct {
	Items  []semanticHitResponse `json:"items"`
	Query  string                `json:"query"`
	TookMs int64                 `json:"tookMs"`
}

type healthResponse struct {
	Status string                          `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func documentToResponse(doc *domain.Document) documentResponse {
	return documentResponse{
		ID:            doc.ID,
		Title:         doc.Title,
		Summary:       doc.Summary,
		FileName:      doc.FileName,
		FileType:      string(doc.FileType),
		FileSize:      doc.FileSize,
		SharingLevel:  string(doc.SharingLevel),
		OwnerID:       doc.OwnerID,
		OwnerUsername: doc.OwnerUsername,
		Tags:          doc.Tags,
		GroupIDs:      doc.GroupIDs,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
		Archived:      doc.Archived,
	}
}

func pageToResponse(page *result.Page) pageResponse {
	items := make([]documentResponse, len(page.Documents))
	for i := range page.Documents {
		items[i] = documentToResponse(&page.Documents[i])
	}

	resp := pageResponse{
		Items:         items,
		Page:          page.Page,
		PageSize:      page.PageSize,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		Query:         page.Query,
		TookMs:        page.Took.Milliseconds(),
	}
	if page.Facets != nil {
		resp.Facets = facetsToResponse(page.Facets)
	}
	return resp
}

func facetsToResponse(f *result.Facets) *facetsResponse {
	resp := &facetsResponse{
		Tags:          make([]bucketResponse, len(f.Tags)),
		FileTypes:     f.FileTypes,
		SharingLevels: f.SharingLevels,
		Owners:        make([]bucketResponse, len(f.Owners)),
	}
	for i, b := range f.Tags {
		resp.Tags[i] = bucketResponse{Key: b.Key, Count: b.Count}
	}
	for i, b := range f.Owners {
		resp.Owners[i] = bucketResponse{Key: b.Key, Count: b.Count}
	}
	return resp
}

func semanticToResponse(res *result.SemanticResult) semanticResponse {
	items := make([]semanticHitResponse, len(res.Hits))
	for i := range res.Hits {
		items[i] = semanticHitResponse{
			Document: documentToResponse(&res.Hits[i].Document),
			Score:    res.Hits[i].Score,
		}
	}
	return semanticResponse{
		Items:  items,
		Query:  res.Query,
		TookMs: res.Took.Milliseconds(),
	}
}

// --- Error helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrDocumentNotFound,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := safeDomainMessage(err)

	switch {
	case errors.Is(err, domain.ErrEmbeddingProviderError):
		s.logger.Warn("embedding provider error", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, codeEmbeddingProviderDown, msg)
	case errors.Is(err, domain.ErrDocumentNotFound), errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, msg)
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

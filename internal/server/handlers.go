package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"

	"github.com/vanshika/granttrace/backend/internal/config"
	"github.com/vanshika/granttrace/backend/internal/domain"
	"github.com/vanshika/granttrace/backend/internal/network"
	"github.com/vanshika/granttrace/backend/internal/service"
)

// GrantQueries is the read contract the HTTP layer serves from.
type GrantQueries interface {
	Network(ctx context.Context, params network.Params) (service.Snapshot, error)
	Search(ctx context.Context, text string) ([]domain.OrgMatch, error)
	OrgDetails(ctx context.Context, ein string) (domain.OrgDetails, error)
	AvailableYears(ctx context.Context, ein string) ([]int, error)
	TaxpayerImpact(ctx context.Context, eins []string) (int64, error)
	CheckOrganization(ctx context.Context, ein string) (domain.OrgCheck, error)
	ConnectedOrgs(ctx context.Context, ein string, depth int) (map[string]int, error)
}

// HandlerOptions tunes request defaults and the live channel's origin policy.
type HandlerOptions struct {
	Defaults       config.FilterConfig
	AllowedOrigins []string
}

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger   *slog.Logger
	service  GrantQueries
	defaults config.FilterConfig
	validate *validator.Validate
	upgrader websocket.Upgrader
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, svc GrantQueries, opts HandlerOptions) *APIHandlers {
	if opts.Defaults.DefaultMaxOrgs == 0 {
		opts.Defaults.DefaultMaxOrgs = network.DefaultMaxOrgs
	}
	h := &APIHandlers{
		logger:   logger,
		service:  svc,
		defaults: opts.Defaults,
		validate: validator.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
	if allowed := originSet(opts.AllowedOrigins); len(allowed) > 0 {
		h.upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowed.allows(origin)
		}
	}
	return h
}

func (h *APIHandlers) handleSearch(w http.ResponseWriter, r *http.Request) {
	matches, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeServiceError(w, r, err, "failed to search organizations")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"items": newOrgMatches(matches),
	})
}

func (h *APIHandlers) handleOrgDetails(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.OrgDetails(r.Context(), chi.URLParam(r, "ein"))
	if err != nil {
		h.writeServiceError(w, r, err, "failed to fetch organization")
		return
	}
	respondJSON(w, http.StatusOK, orgDetailsResponse(details))
}

func (h *APIHandlers) handleOrgYears(w http.ResponseWriter, r *http.Request) {
	ein := chi.URLParam(r, "ein")
	years, err := h.service.AvailableYears(r.Context(), ein)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to fetch available years")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"ein":   ein,
		"years": years,
	})
}

func (h *APIHandlers) handleOrgCheck(w http.ResponseWriter, r *http.Request) {
	check, err := h.service.CheckOrganization(r.Context(), chi.URLParam(r, "ein"))
	if err != nil {
		h.writeServiceError(w, r, err, "failed to check organization")
		return
	}
	respondJSON(w, http.StatusOK, orgCheckResponse(check))
}

func (h *APIHandlers) handleOrgConnected(w http.ResponseWriter, r *http.Request) {
	ein := chi.URLParam(r, "ein")
	depth := parseInt(r.URL.Query().Get("depth"), h.defaults.DefaultDepth)
	connected, err := h.service.ConnectedOrgs(r.Context(), ein, depth)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to fetch connected organizations")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"ein":    ein,
		"depth":  depth,
		"depths": connected,
	})
}

func (h *APIHandlers) handleImpact(w http.ResponseWriter, r *http.Request) {
	var req impactRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "eins must list between 1 and 1000 identifiers")
		return
	}

	total, err := h.service.TaxpayerImpact(r.Context(), req.EINs)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to compute taxpayer impact")
		return
	}
	respondJSON(w, http.StatusOK, impactResponse{
		Organizations: len(req.EINs),
		GovtFunds:     total,
	})
}

func (h *APIHandlers) handleNetwork(w http.ResponseWriter, r *http.Request) {
	params := paramsFromQuery(r.URL.Query()).toParams(h.defaults)
	snap, err := h.service.Network(r.Context(), params)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to filter network")
		return
	}
	respondJSON(w, http.StatusOK, newNetworkResponse(snap))
}

func (h *APIHandlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrDatasetNotLoaded):
		writeError(w, http.StatusServiceUnavailable, "grant dataset is not loaded")
	case errors.Is(err, service.ErrOrgNotFound):
		writeError(w, http.StatusNotFound, "organization not found")
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to write.
	default:
		h.logger.Error(msg, "error", err, "request_id", RequestID(r.Context()))
		writeError(w, http.StatusInternalServerError, msg)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func attachmentName(root, ext string) string {
	root = strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '-':
			return r
		default:
			return -1
		}
	}, root)
	if root == "" {
		root = "network"
	}
	return "grants-" + root + "." + ext
}

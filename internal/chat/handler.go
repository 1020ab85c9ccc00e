package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/sibyl/pkg/handlers"
	"github.com/JaimeStill/sibyl/pkg/pagination"
	"github.com/JaimeStill/sibyl/pkg/routes"
)

// Handler provides HTTP endpoints for chat operations.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
	timeout    time.Duration
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, logger, pagination
// config, and per-request workflow timeout.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	timeout time.Duration,
) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "chat"),
		pagination: pagination,
		timeout:    timeout,
	}
}

// Routes returns the route group definition for chat endpoints. The bare
// group path is the message endpoint: POST runs the workflow, any other
// method is rejected via the method-agnostic fallback route. The recorded
// exchange history lives under /exchanges.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/chat",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Send},
			{Method: "", Pattern: "", Handler: h.PostRequired},
			{Method: "GET", Pattern: "/exchanges", Handler: h.List},
			{Method: "GET", Pattern: "/exchanges/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "/exchanges/search", Handler: h.Search},
			{Method: "DELETE", Pattern: "/exchanges/{id}", Handler: h.Delete},
		},
	}
}

// Send processes a user message through the answer workflow and returns the
// generated output. The workflow runs under the configured timeout; when it
// expires the request fails with 504 while the workflow goroutine is
// abandoned to the cancelled context.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var cmd SendCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	type sendResult struct {
		exchange *Exchange
		err      error
	}

	done := make(chan sendResult, 1)
	go func() {
		e, err := h.sys.Send(ctx, cmd)
		done <- sendResult{exchange: e, err: err}
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			handlers.RespondError(w, h.logger, http.StatusGatewayTimeout, ErrProcessingTimeout)
		}
	case res := <-done:
		if res.err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(res.err), res.err)
			return
		}
		handlers.RespondJSON(w, http.StatusOK, SendResponse{Output: res.exchange.Answer})
	}
}

// PostRequired rejects non-POST requests to the message endpoint.
func (h *Handler) PostRequired(w http.ResponseWriter, r *http.Request) {
	handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrPostRequired)
}

// List returns a paginated list of exchanges with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single exchange by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	e, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, e)
}

// Search accepts a JSON body with pagination and filter criteria and returns matching exchanges.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Delete removes an exchange by its UUID path parameter.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/tournament-admin/internal/usecase"
)

const maxTopScorersLimit = 100

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "GetDashboard")
	defer span.End()

	dashboard, err := h.statisticsService.Dashboard(ctx)
	if err != nil {
		h.fail(ctx, w, "get dashboard failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dashboardToDTO(dashboard, h.directory(ctx), h.location))
}

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "ListStandings")
	defer span.End()

	group := r.URL.Query().Get("group")
	tables, err := h.statisticsService.Standings(ctx, group)
	if err != nil {
		h.fail(ctx, w, "list standings failed", err, "group", group)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTO(tables, h.directory(ctx)))
}

func (h *Handler) ListTopScorers(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "ListTopScorers")
	defer span.End()

	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if limit < 0 || limit > maxTopScorersLimit {
		writeError(ctx, w, fmt.Errorf("%w: limit must be between 1 and %d", usecase.ErrInvalidInput, maxTopScorersLimit))
		return
	}

	items, err := h.statisticsService.TopScorers(ctx, limit)
	if err != nil {
		h.fail(ctx, w, "list top scorers failed", err, "limit", limit)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scorersToDTO(items, h.directory(ctx)))
}

func (h *Handler) ListSuspensions(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "ListSuspensions")
	defer span.End()

	items, err := h.statisticsService.Suspensions(ctx)
	if err != nil {
		h.fail(ctx, w, "list suspensions failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, suspensionsToDTO(items))
}

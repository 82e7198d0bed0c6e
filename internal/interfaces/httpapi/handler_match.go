package httpapi

import (
	"context"
	"net/http"

	"github.com/riskibarqy/tournament-admin/internal/domain/match"
	"github.com/riskibarqy/tournament-admin/internal/domain/tournament"
	"github.com/riskibarqy/tournament-admin/internal/usecase"
)

func (h *Handler) GenerateSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "GenerateSchedule")
	defer span.End()

	var req generateScheduleRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.scheduleService.Generate(ctx, usecase.GenerateScheduleInput{
		StartDate: req.StartDate,
		Replace:   req.Replace,
	})
	if err != nil {
		h.fail(ctx, w, "generate schedule failed", err, "start_date", req.StartDate, "replace", req.Replace)
		return
	}

	dir := h.directory(ctx)
	writeSuccess(ctx, w, http.StatusCreated, scheduleResultToDTO(result, dir, h.location))
}

func (h *Handler) ClearSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "ClearSchedule")
	defer span.End()

	removed, err := h.scheduleService.Clear(ctx)
	if err != nil {
		h.fail(ctx, w, "clear schedule failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"removedMatches": removed})
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "ListMatches")
	defer span.End()

	round, err := queryInt(r, "round")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	query := r.URL.Query()
	filter := usecase.MatchFilter{
		Group:  query.Get("group"),
		Round:  round,
		Status: query.Get("status"),
		TeamID: query.Get("teamId"),
	}

	items, err := h.scheduleService.List(ctx, filter)
	if err != nil {
		h.fail(ctx, w, "list matches failed", err, "group", filter.Group, "round", filter.Round, "status", filter.Status)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchesToDTO(items, h.directory(ctx), h.location))
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "GetMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	item, err := h.matchService.Get(ctx, matchID)
	if err != nil {
		h.fail(ctx, w, "get match failed", err, "match_id", matchID)
		return
	}

	h.writeMatch(ctx, w, http.StatusOK, item)
}

func (h *Handler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "UpdateMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	var req updateMatchRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.matchService.UpdateDetails(ctx, matchID, usecase.UpdateMatchInput{
		Date:  req.Date,
		Time:  req.Time,
		Venue: req.Venue,
		Round: req.Round,
		Group: req.Group,
	})
	if err != nil {
		h.fail(ctx, w, "update match failed", err, "match_id", matchID)
		return
	}

	h.writeMatch(ctx, w, http.StatusOK, item)
}

func (h *Handler) RecordResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "RecordResult")
	defer span.End()

	matchID := r.PathValue("matchID")
	var req recordResultRequest
	if err := h.decodeRequest(ctx, r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.matchService.RecordResult(ctx, matchID, usecase.RecordResultInput{
		HomeScore: req.HomeScore,
		AwayScore: req.AwayScore,
	})
	if err != nil {
		h.fail(ctx, w, "record result failed", err, "match_id", matchID)
		return
	}

	h.writeMatch(ctx, w, http.StatusOK, item)
}

func (h *Handler) CancelMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "CancelMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	item, err := h.matchService.Cancel(ctx, matchID)
	if err != nil {
		h.fail(ctx, w, "cancel match failed", err, "match_id", matchID)
		return
	}

	h.writeMatch(ctx, w, http.StatusOK, item)
}

func (h *Handler) ReopenMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "ReopenMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	item, err := h.matchService.Reopen(ctx, matchID)
	if err != nil {
		h.fail(ctx, w, "reopen match failed", err, "match_id", matchID)
		return
	}

	h.writeMatch(ctx, w, http.StatusOK, item)
}

func (h *Handler) AddGoal(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "AddGoal")
	defer span.End()

	matchID := r.PathValue("matchID")
	var req addGoalRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	goal, err := h.matchService.AddGoal(ctx, matchID, usecase.AddGoalInput{
		PlayerID:  req.PlayerID,
		TeamID:    req.TeamID,
		Minute:    req.Minute,
		IsOwnGoal: req.IsOwnGoal,
	})
	if err != nil {
		h.fail(ctx, w, "add goal failed", err, "match_id", matchID, "player_id", req.PlayerID)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, goalToDTO(goal, h.directory(ctx)))
}

func (h *Handler) AddCard(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "AddCard")
	defer span.End()

	matchID := r.PathValue("matchID")
	var req addCardRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	card, err := h.matchService.AddCard(ctx, matchID, usecase.AddCardInput{
		PlayerID: req.PlayerID,
		TeamID:   req.TeamID,
		Minute:   req.Minute,
		Type:     req.Type,
	})
	if err != nil {
		h.fail(ctx, w, "add card failed", err, "match_id", matchID, "player_id", req.PlayerID)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, cardToDTO(card, h.directory(ctx)))
}

func (h *Handler) writeMatch(ctx context.Context, w http.ResponseWriter, status int, item match.Match) {
	writeSuccess(ctx, w, status, matchToDTO(item, h.directory(ctx), h.location))
}

// directory falls back to an empty lookup so a failed refresh renders ids as
// unresolved instead of failing a write that already succeeded.
func (h *Handler) directory(ctx context.Context) tournament.Directory {
	dir, err := h.statisticsService.Directory(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "load directory failed", "error", err)
		return tournament.NewDirectory(nil)
	}
	return dir
}

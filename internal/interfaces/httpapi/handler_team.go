package httpapi

import (
	"net/http"

	"github.com/riskibarqy/tournament-admin/internal/usecase"
)

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "ListTeams")
	defer span.End()

	group := r.URL.Query().Get("group")
	teams, err := h.teamService.ListTeams(ctx, group)
	if err != nil {
		h.fail(ctx, w, "list teams failed", err, "group", group)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(t))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "GetTeam")
	defer span.End()

	teamID := r.PathValue("teamID")
	item, err := h.teamService.GetTeam(ctx, teamID)
	if err != nil {
		h.fail(ctx, w, "get team failed", err, "team_id", teamID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(item))
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "CreateTeam")
	defer span.End()

	var req createTeamRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.teamService.CreateTeam(ctx, usecase.CreateTeamInput{
		Name:    req.Name,
		Group:   req.Group,
		LogoURL: req.LogoURL,
	})
	if err != nil {
		h.fail(ctx, w, "create team failed", err, "name", req.Name)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, teamToDTO(item))
}

func (h *Handler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "UpdateTeam")
	defer span.End()

	teamID := r.PathValue("teamID")
	var req updateTeamRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.teamService.UpdateTeam(ctx, teamID, usecase.UpdateTeamInput{
		Name:    req.Name,
		Group:   req.Group,
		LogoURL: req.LogoURL,
	})
	if err != nil {
		h.fail(ctx, w, "update team failed", err, "team_id", teamID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(item))
}

func (h *Handler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "DeleteTeam")
	defer span.End()

	teamID := r.PathValue("teamID")
	result, err := h.teamService.DeleteTeam(ctx, teamID)
	if err != nil {
		h.fail(ctx, w, "delete team failed", err, "team_id", teamID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, deleteTeamDTO{
		ID:             teamID,
		RemovedPlayers: result.RemovedPlayers,
		RemovedMatches: result.RemovedMatches,
	})
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "ListPlayers")
	defer span.End()

	teamID := r.PathValue("teamID")
	players, err := h.teamService.ListPlayers(ctx, teamID)
	if err != nil {
		h.fail(ctx, w, "list players failed", err, "team_id", teamID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(players))
}

func (h *Handler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "AddPlayer")
	defer span.End()

	teamID := r.PathValue("teamID")
	var req addPlayerRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.teamService.AddPlayer(ctx, teamID, usecase.PlayerInput{
		Name:     req.Name,
		Number:   *req.Number,
		Position: req.Position,
	})
	if err != nil {
		h.fail(ctx, w, "add player failed", err, "team_id", teamID)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, playerToDTO(item))
}

func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "UpdatePlayer")
	defer span.End()

	playerID := r.PathValue("playerID")
	var req updatePlayerRequest
	if err := h.decodeRequest(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.teamService.UpdatePlayer(ctx, playerID, usecase.UpdatePlayerInput{
		Name:     req.Name,
		Number:   req.Number,
		Position: req.Position,
		TeamID:   req.TeamID,
	})
	if err != nil {
		h.fail(ctx, w, "update player failed", err, "player_id", playerID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(item))
}

func (h *Handler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "RemovePlayer")
	defer span.End()

	playerID := r.PathValue("playerID")
	if err := h.teamService.RemovePlayer(ctx, playerID); err != nil {
		h.fail(ctx, w, "remove player failed", err, "player_id", playerID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"id": playerID})
}

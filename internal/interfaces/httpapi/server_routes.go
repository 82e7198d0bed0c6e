package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerReadRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/dashboard", handler.GetDashboard)
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)
	mux.HandleFunc("GET /v1/teams/{teamID}/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/standings", handler.ListStandings)
	mux.HandleFunc("GET /v1/statistics/top-scorers", handler.ListTopScorers)
	mux.HandleFunc("GET /v1/statistics/suspensions", handler.ListSuspensions)
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, guard Middleware) {
	admin := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, guard(fn))
	}

	admin("POST /v1/teams", handler.CreateTeam)
	admin("PUT /v1/teams/{teamID}", handler.UpdateTeam)
	admin("DELETE /v1/teams/{teamID}", handler.DeleteTeam)
	admin("POST /v1/teams/{teamID}/players", handler.AddPlayer)
	admin("PUT /v1/players/{playerID}", handler.UpdatePlayer)
	admin("DELETE /v1/players/{playerID}", handler.RemovePlayer)

	admin("POST /v1/schedule/generate", handler.GenerateSchedule)
	admin("DELETE /v1/schedule", handler.ClearSchedule)

	admin("PATCH /v1/matches/{matchID}", handler.UpdateMatch)
	admin("POST /v1/matches/{matchID}/result", handler.RecordResult)
	admin("POST /v1/matches/{matchID}/cancel", handler.CancelMatch)
	admin("POST /v1/matches/{matchID}/reopen", handler.ReopenMatch)
	admin("POST /v1/matches/{matchID}/goals", handler.AddGoal)
	admin("POST /v1/matches/{matchID}/cards", handler.AddCard)
}

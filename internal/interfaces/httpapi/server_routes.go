package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /readyz", handler.Readyz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/rankings/{mode}", handler.GetRankings)
	mux.HandleFunc("GET /v1/config-tables/{mode}", handler.GetConfigTables)
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("GET /v1/seasons", handler.ListSeasons)
	mux.HandleFunc("GET /v1/games/{mode}", handler.ListGames)
	mux.HandleFunc("GET /v1/games/{mode}/{gameID}", handler.GetGame)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedSubmissionRoutes(mux, handler, verifier)
	registerAuthorizedConfigRoutes(mux, handler, verifier)
	registerAuthorizedPlayerRoutes(mux, handler, verifier)
}

func registerAuthorizedSubmissionRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/submissions", authed(verifier, handler.SubmitGame))
	mux.Handle("GET /v1/submissions", authed(verifier, handler.ListSubmissions))
	mux.Handle("GET /v1/submissions/{submissionID}", authed(verifier, handler.GetSubmission))
	mux.Handle("DELETE /v1/submissions/{submissionID}", authed(verifier, handler.DeleteSubmission))
	mux.Handle("POST /v1/submissions/{submissionID}/restore", authed(verifier, handler.RestoreSubmission))
	mux.Handle("POST /v1/submissions/{submissionID}/approve", authed(verifier, handler.ApproveSubmission))
	mux.Handle("POST /v1/submissions/{submissionID}/reject", authed(verifier, handler.RejectSubmission))
}

func registerAuthorizedConfigRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("PUT /v1/config-tables/{mode}/tier", authed(verifier, handler.PutTierTable))
	mux.Handle("PUT /v1/config-tables/{mode}/rate", authed(verifier, handler.PutRateTable))
	mux.Handle("PUT /v1/config-tables/{mode}/scoring", authed(verifier, handler.PutScoringTable))
	mux.Handle("PUT /v1/config-tables/{mode}/seasons", authed(verifier, handler.PutSeasonTables))
	mux.Handle("POST /v1/seasons", authed(verifier, handler.CreateSeason))
	mux.Handle("POST /v1/recalc", authed(verifier, handler.RunRecalc))
}

func registerAuthorizedPlayerRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/players", authed(verifier, handler.CreatePlayer))
	mux.Handle("DELETE /v1/players/{playerID}", authed(verifier, handler.DeletePlayer))
	mux.Handle("POST /v1/players/{playerID}/restore", authed(verifier, handler.RestorePlayer))
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/cache/invalidate", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.InvalidateCache)))
	mux.Handle("POST /v1/internal/cache/warmup", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.WarmUpCache)))
}

// authed stacks bearer verification and the admin-only deleted-rows
// visibility toggle in front of a handler.
func authed(verifier TokenVerifier, handlerFunc http.HandlerFunc) http.Handler {
	return RequireAuth(verifier, DeletedVisibility(handlerFunc))
}

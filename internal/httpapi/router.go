package httpapi

import (
	"github.com/gorilla/mux"

	"github.com/robpatriot/nommie/internal/authtoken"
	"github.com/robpatriot/nommie/internal/orchestrator"
)

// NewRouter wires the endpoint table of spec.md §6 onto gorilla/mux,
// guarding every route with bearer-token auth and an optional CORS
// origin, one handler registered per REST endpoint.
func NewRouter(o *orchestrator.Orchestrator, verifier *authtoken.Verifier, corsOrigin string) *mux.Router {
	h := &handlers{orch: o}

	r := mux.NewRouter()
	r.Use(withCORS(corsOrigin))

	api := r.PathPrefix("/api").Subrouter()
	api.Use(withAuth(verifier))

	api.HandleFunc("/create_game", h.createGame).Methods("POST")
	api.HandleFunc("/games", h.listGames).Methods("GET")
	api.HandleFunc("/game/{id}/join", h.joinGame).Methods("POST")
	api.HandleFunc("/game/{id}/add_ai", h.addAI).Methods("POST")
	api.HandleFunc("/game/{id}/ready", h.ready).Methods("POST")
	api.HandleFunc("/game/{id}/state", h.getState).Methods("GET")
	api.HandleFunc("/game/{id}/summary", h.getSummary).Methods("GET")
	api.HandleFunc("/game/{id}/bid", h.bid).Methods("POST")
	api.HandleFunc("/game/{id}/trump", h.chooseTrump).Methods("POST")
	api.HandleFunc("/game/{id}/play", h.playCard).Methods("POST")
	api.HandleFunc("/game/{id}", h.deleteGame).Methods("DELETE")

	return r
}

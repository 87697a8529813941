package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/robpatriot/nommie/internal/apierrors"
	"github.com/robpatriot/nommie/internal/model"
	"github.com/robpatriot/nommie/internal/orchestrator"
)

type handlers struct {
	orch *orchestrator.Orchestrator
}

type createGameResponse struct {
	Game        *model.Game        `json:"game"`
	GamePlayers []model.GamePlayer `json:"game_players"`
}

func (h *handlers) createGame(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFromContext(r.Context())
	g, players, err := h.orch.CreateGame(r.Context(), caller.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, createGameResponse{Game: g, GamePlayers: players})
}

func (h *handlers) listGames(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFromContext(r.Context())
	games, err := h.orch.ListGames(r.Context(), caller.ID, 100)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"games": games})
}

func (h *handlers) joinGame(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFromContext(r.Context())
	g, err := h.orch.JoinGame(r.Context(), mux.Vars(r)["id"], caller.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *handlers) addAI(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFromContext(r.Context())
	g, err := h.orch.AddAI(r.Context(), mux.Vars(r)["id"], caller.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *handlers) ready(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFromContext(r.Context())
	g, err := h.orch.Ready(r.Context(), mux.Vars(r)["id"], caller.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *handlers) getState(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFromContext(r.Context())
	snap, err := h.orch.GetState(r.Context(), mux.Vars(r)["id"], caller.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *handlers) getSummary(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFromContext(r.Context())
	sum, err := h.orch.GetSummary(r.Context(), mux.Vars(r)["id"], caller.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

type bidRequest struct {
	Bid int `json:"bid"`
}

func (h *handlers) bid(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFromContext(r.Context())
	var req bidRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	g, err := h.orch.Bid(r.Context(), mux.Vars(r)["id"], caller.ID, req.Bid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

type trumpRequest struct {
	TrumpSuit string `json:"trump_suit"`
}

func (h *handlers) chooseTrump(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFromContext(r.Context())
	var req trumpRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	suit, err := model.ParseSuit(req.TrumpSuit)
	if err != nil {
		writeError(w, apierrors.New(apierrors.RangeViolation, "invalid trump suit %q", req.TrumpSuit))
		return
	}
	g, err := h.orch.ChooseTrump(r.Context(), mux.Vars(r)["id"], caller.ID, suit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

type playRequest struct {
	Card string `json:"card"`
}

func (h *handlers) playCard(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFromContext(r.Context())
	var req playRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	card, err := model.ParseCard(req.Card)
	if err != nil {
		writeError(w, apierrors.New(apierrors.RangeViolation, "invalid card %q", req.Card))
		return
	}
	g, err := h.orch.PlayCard(r.Context(), mux.Vars(r)["id"], caller.ID, card)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

func (h *handlers) deleteGame(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFromContext(r.Context())
	if err := h.orch.DeleteGame(r.Context(), mux.Vars(r)["id"], caller.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

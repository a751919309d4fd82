package mux

import (
	"holdem-server/pkg/holdem"
	"holdem-server/pkg/room"
	"math"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

var gameOver = map[string]string{
	"gameover": room.ResultSuccess,
}

// writeGameError writes the response for an error from the pit boss
// Player mistakes are a 400 with the reason as a JSON string
func writeGameError(w http.ResponseWriter, r *http.Request, err error) {
	switch err {
	case room.ErrLeftTable:
		writeJSON(w, http.StatusOK, gameOver)
		return
	case holdem.ErrWrongTurn:
		writeJSON(w, http.StatusBadRequest, map[string]string{"notallowed": err.Error()})
		return
	}

	if _, ok := err.(holdem.UserError); ok {
		writeJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	requestLog(r).WithError(err).Error("game request failed")
	writeJSONError(w, http.StatusInternalServerError, err)
}

// pathInt parses a path variable. The route pattern guarantees digits, but it may overflow
func pathInt(r *http.Request, key string) (int64, bool) {
	v, err := strconv.ParseInt(mux.Vars(r)[key], 10, 64)
	return v, err == nil
}

func (m *Mux) getGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := m.pitBoss.View(r.Context(), currentUser(r).ID)
		if err != nil {
			writeGameError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, v)
	}
}

func (m *Mux) postGameCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buyin, ok := pathInt(r, "buyin")
		if !ok || buyin > math.MaxInt32 {
			writeGameError(w, r, holdem.ErrInvalidBuyin)
			return
		}

		v, err := m.pitBoss.Create(r.Context(), currentUser(r), int(buyin))
		if err != nil {
			writeGameError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, v)
	}
}

func (m *Mux) postGameJoin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tableID, ok := pathInt(r, "tableId")
		if !ok {
			writeGameError(w, r, holdem.ErrTableNotFound)
			return
		}

		v, err := m.pitBoss.Join(r.Context(), currentUser(r), tableID)
		if err != nil {
			writeGameError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, v)
	}
}

func (m *Mux) postGameAction(action holdem.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var amount int
		if action == holdem.ActionBet {
			v, ok := pathInt(r, "amount")
			if !ok || v > math.MaxInt32 {
				writeGameError(w, r, holdem.ErrInvalidAmount)
				return
			}

			amount = int(v)
		}

		result, err := m.pitBoss.Act(r.Context(), currentUser(r).ID, action, amount)
		if err != nil {
			writeGameError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func (m *Mux) postGameExit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := m.pitBoss.Exit(r.Context(), currentUser(r).ID); err != nil {
			writeGameError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, gameOver)
	}
}

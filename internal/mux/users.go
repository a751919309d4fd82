package mux

import (
	"errors"
	"holdem-server/internal/jwt"
	"holdem-server/pkg/table"
	"net/http"
	"regexp"
)

type registerPayload struct {
	Name      string `json:"name"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

type loginPayload struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	JWT   string      `json:"jwt"`
	User  *table.User `json:"user"`
}

var validUsernameRx = regexp.MustCompile(`^[A-Za-z0-9_-]{3,32}\z`)

func (m *Mux) postUsersRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload registerPayload
		if !decodeRequest(w, r, &payload) {
			return
		}

		if !validUsernameRx.MatchString(payload.Name) {
			writeJSONError(w, http.StatusBadRequest, errors.New("name must be 3 to 32 letters, numbers, dashes, or underscores"))
			return
		}

		if len(payload.Password) < 6 {
			writeJSONError(w, http.StatusBadRequest, errors.New("password must be 6 or more characters"))
			return
		}

		if payload.Password != payload.Password2 {
			writeJSONError(w, http.StatusBadRequest, errors.New("passwords do not match"))
			return
		}

		user, err := m.store.CreateUser(r.Context(), payload.Name, payload.Password, m.startingBank)
		if err != nil {
			if err == table.ErrDuplicateKey {
				writeJSONError(w, http.StatusBadRequest, errors.New("name is already taken"))
				return
			}

			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		requestLog(r).WithField("username", user.Username).Info("registered user")
		writeJSON(w, http.StatusCreated, user)
	}
}

func (m *Mux) postUsersLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginPayload
		if !decodeRequest(w, r, &payload) {
			return
		}

		user, err := m.store.GetUserByUsernameAndPassword(r.Context(), payload.Name, payload.Password)
		if err != nil {
			if err == table.ErrInvalidUsernameOrPassword {
				writeJSONError(w, http.StatusUnauthorized, err)
				return
			}

			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		signedToken, err := jwt.Sign(user.ID)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusOK, loginResponse{
			Token: "Bearer " + signedToken,
			JWT:   signedToken,
			User:  user,
		})
	}
}

// getUsersMe reads the user from the store, so the bank is current
func (m *Mux) getUsersMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := m.store.GetUserByID(r.Context(), currentUser(r).ID)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}

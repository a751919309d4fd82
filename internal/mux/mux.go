package mux

import (
	"context"
	"holdem-server/internal/jwt"
	"holdem-server/pkg/holdem"
	"holdem-server/pkg/room"
	"holdem-server/pkg/table"
	"holdem-server/pkg/token"
	"net/http"
	"strconv"
	"strings"

	gmux "github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type ctxKey int

const (
	ctxUserKey ctxKey = iota
	ctxRequestIDKey
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version      string
	store        table.Store
	pitBoss      *room.PitBoss
	users        *userCache
	startingBank int

	// store for testing purposes
	authRouter  *gmux.Router
	adminRouter *gmux.Router
}

// NewMux returns a new HTTP mux
func NewMux(version string, store table.Store, pitBoss *room.PitBoss, startingBank, userCacheSize int) (*Mux, error) {
	users, err := newUserCache(store, userCacheSize)
	if err != nil {
		return nil, err
	}

	this := &Mux{
		Router:       gmux.NewRouter(),
		version:      version,
		store:        store,
		pitBoss:      pitBoss,
		users:        users,
		startingBank: startingBank,
	}

	this.Router.Use(requestIDMiddleware)

	this.authRouter = this.Router.NewRoute().Subrouter()
	this.authRouter.Use(this.authMiddleware)

	this.adminRouter = this.authRouter.NewRoute().Subrouter()
	this.adminRouter.Use(this.adminMiddleware)

	// unauthorized endpoints
	{
		r := this.Router
		r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
		r.Methods(http.MethodGet).Path("/metrics").Handler(promhttp.Handler())
		r.Methods(http.MethodPost).Path("/api/users/register").Handler(this.postUsersRegister())
		r.Methods(http.MethodPost).Path("/api/users/login").Handler(this.postUsersLogin())
	}

	// requires bearer authorization
	{
		r := this.authRouter
		r.Methods(http.MethodGet).Path("/api/users/me").Handler(this.getUsersMe())

		gr := r.PathPrefix("/api/game").Subrouter()
		gr.Methods(http.MethodGet).Path("").Handler(this.getGame())
		gr.Methods(http.MethodGet).Path("/").Handler(this.getGame())
		gr.Methods(http.MethodGet).Path("/ws").Handler(this.getGameWS())
		gr.Methods(http.MethodPost).Path("/create/{buyin:[0-9]+}").Handler(this.postGameCreate())
		gr.Methods(http.MethodPost).Path("/join/{tableId:[0-9]+}").Handler(this.postGameJoin())
		gr.Methods(http.MethodPost).Path("/check").Handler(this.postGameAction(holdem.ActionCheck))
		gr.Methods(http.MethodPost).Path("/call").Handler(this.postGameAction(holdem.ActionCall))
		gr.Methods(http.MethodPost).Path("/fold").Handler(this.postGameAction(holdem.ActionFold))
		gr.Methods(http.MethodPost).Path("/bet/{amount:[0-9]+}").Handler(this.postGameAction(holdem.ActionBet))
		gr.Methods(http.MethodPost).Path("/exit").Handler(this.postGameExit())
	}

	// requires admin access
	// depends on authMiddleware
	{
		r := this.adminRouter
		r.Methods(http.MethodGet).Path("/api/admin/tables").Handler(this.getAdminTables())
	}

	return this, nil
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = token.RequestID()
		}

		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxRequestIDKey, id)))
	})
}

// requestLog returns a logger for the request
func requestLog(r *http.Request) *logrus.Entry {
	log := logrus.WithField("path", r.URL.Path)
	if id, ok := r.Context().Value(ctxRequestIDKey).(string); ok {
		log = log.WithField("requestId", id)
	}

	if user, ok := r.Context().Value(ctxUserKey).(*table.User); ok {
		log = log.WithField("userId", user.ID)
	}

	return log
}

func (m *Mux) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.FormValue("access_token")
		if token == "" {
			authHeader := strings.Split(r.Header.Get("Authorization"), " ")
			if len(authHeader) != 2 || strings.ToLower(authHeader[0]) != "bearer" {
				writeJSONError(w, http.StatusUnauthorized, nil)
				return
			}

			token = authHeader[1]
		}

		id, err := jwt.ValidUserID(token)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		user, err := m.users.Get(r.Context(), id)
		if err != nil {
			if err != table.ErrUserNotFound {
				requestLog(r).WithError(err).Error("could not load user")
			}

			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxUserKey, user)
		w.Header().Set("Holdem-UserID", strconv.FormatInt(user.ID, 10))
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

// adminMiddleware requires authMiddleware to execute first
func (m *Mux) adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !currentUser(r).IsAdmin {
			writeJSONError(w, http.StatusForbidden, nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// currentUser returns the user set by authMiddleware
func currentUser(r *http.Request) *table.User {
	return r.Context().Value(ctxUserKey).(*table.User)
}

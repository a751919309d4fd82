package main

import (
	"context"
	"flag"
	"holdem-server/internal/config"
	"holdem-server/internal/jwt"
	"holdem-server/internal/mux"
	"holdem-server/pkg/db"
	"holdem-server/pkg/room"
	"holdem-server/pkg/table"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10
const shutdownTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", ":5000", "the listen address")

func main() {
	flag.Parse()
	setupLogger()

	// fail fast
	jwt.LoadKeys()

	cfg := config.Instance()
	store := newStore(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pitBoss := room.NewPitBoss(store, cfg.TableRules(), room.WithTickInterval(cfg.TickDuration()))
	if err := pitBoss.StartShift(ctx); err != nil {
		logrus.WithError(err).Fatal("could not start the tables")
	}
	defer pitBoss.EndShift()

	m, err := mux.NewMux(Version, store, pitBoss, cfg.StartingBank, cfg.UserCacheSize)
	if err != nil {
		logrus.WithError(err).Fatal("could not create the mux")
	}

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With", "Authorization"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})

	srv := &http.Server{
		Addr:         *addr,
		Handler:      loggingHandler(c.Handler(m)),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("could not shut down cleanly")
		}
	}()

	logrus.WithFields(logrus.Fields{
		"addr":    srv.Addr,
		"store":   cfg.Store,
		"version": Version,
	}).Info("listening")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logrus.WithError(err).Fatal("server stopped")
	}
}

func newStore(cfg config.Config) table.Store {
	if cfg.Store == config.StoreMemory {
		logrus.Warn("using the in-memory store, nothing will be saved")
		return table.NewMemoryStore()
	}

	// run the db migrations
	db.Migrate()
	return table.NewPostgresStore(db.Instance())
}

func loggingHandler(next http.Handler) http.Handler {
	if config.Instance().Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	if lvl := config.Instance().Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}

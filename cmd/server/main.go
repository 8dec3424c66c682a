/*
main.go - Application entry point

STARTUP SEQUENCE:
  1. Load .env (optional) and parse flags
  2. Open the SQLite store and hydrate the roster + presence cache
  3. Build the local remote-sync adapter (validator + store)
  4. Start the HTTP server with graceful shutdown

FLAGS:
  -port  HTTP server port (default 8080, or PORT from the environment)
  -db    SQLite database path (default presenze.db; ":memory:" works)
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/backoffice/presence-engine/api"
	"github.com/backoffice/presence-engine/balance"
	"github.com/backoffice/presence-engine/directory"
	"github.com/backoffice/presence-engine/presence"
	"github.com/backoffice/presence-engine/remote"
	"github.com/backoffice/presence-engine/store/sqlite"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file, using environment as-is")
	}

	defaultPort := 8080
	if p, err := strconv.Atoi(os.Getenv("PORT")); err == nil {
		defaultPort = p
	}
	port := flag.Int("port", defaultPort, "HTTP server port")
	dbPath := flag.String("db", "presenze.db", "SQLite database path")
	flag.Parse()

	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer store.Close()

	ctx := context.Background()

	// Hydrate the roster read model.
	roster := directory.NewRoster()
	emps, err := store.ListEmployees(ctx)
	if err != nil {
		log.WithError(err).Fatal("failed to load employees")
	}
	for _, emp := range emps {
		roster.Put(emp)
	}

	// Warm the presence cache with the current and previous month.
	cells := presence.NewStore()
	now := time.Now()
	for _, back := range []int{0, 1} {
		y, m, _ := now.AddDate(0, -back, 0).Date()
		records, err := store.MonthRecords(ctx, y, m)
		if err != nil {
			log.WithError(err).Fatal("failed to load presence records")
		}
		for k, state := range records {
			cells.Set(k.Employee, k.Day, state)
		}
	}

	validator := balance.NewValidator(store, nil, log)
	sync := remote.NewLocal(validator, store)
	ctrl := presence.NewController(cells, sync, log)

	handler := api.NewHandler(roster, ctrl, sync, store, log)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("presence calendar listening on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("forced shutdown")
	}
	log.Info("server stopped")
}

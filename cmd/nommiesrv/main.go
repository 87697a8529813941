// Command nommiesrv runs the HTTP server: loads the environment,
// connects to Postgres, and serves the REST API.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robpatriot/nommie/internal/authtoken"
	"github.com/robpatriot/nommie/internal/config"
	"github.com/robpatriot/nommie/internal/httpapi"
	"github.com/robpatriot/nommie/internal/logging"
	"github.com/robpatriot/nommie/internal/orchestrator"
	"github.com/robpatriot/nommie/internal/store"
)

func main() {
	var addr string
	flag.StringVar(&addr, "addr", ":8080", "address to listen on")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "nommiesrv: %v\n", err)
		os.Exit(1)
	}

	logging.Init(os.Stderr, cfg.IsProduction())
	log := logging.Logger("SRV")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Errorf("connect store: %v", err)
		os.Exit(1)
	}
	defer st.Close()

	orch := orchestrator.New(st)
	verifier := authtoken.New(cfg.AuthSecret, st)
	router := httpapi.NewRouter(orch, verifier, cfg.CORSAllowedOrigin)

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	log.Infof("listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Errorf("serve: %v", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gamelobby/lobbyqueue"
	"github.com/gamelobby/lobbyqueue/config"
	"github.com/gamelobby/lobbyqueue/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lobbyqueued",
		Short:         "Matchmaking queue daemon: size-class pools with readiness confirmation",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newServeCmd())
	return rootCmd
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the queue API server and sweeper",
		RunE: func(_ *cobra.Command, _ []string) error {
			return serve()
		},
	}
}

func serve() error {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file, relying on environment")
	}

	cfg, err := config.Load(nil)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log.SetFormatter(&log.JSONFormatter{})
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	gin.SetMode(cfg.GinMode)

	options := lobbyqueue.NewQueueEngineOptions()
	options.ConfirmTimeout = cfg.ConfirmTimeout
	options.TrackedMessageKeep = cfg.TrackedMessageKeep
	options.TrackedMessageDelay = cfg.TrackedMessageDelay

	manager := lobbyqueue.NewManager(options, cfg.SweepInterval,
		lobbyqueue.WithNotifier(lobbyqueue.NewLogNotifier()))
	defer manager.Close()

	if err := manager.Start(); err != nil {
		return fmt.Errorf("start sweeper: %w", err)
	}

	handler := server.NewHandler(manager)
	router := server.NewRouter(handler, cfg.AdminToken)

	srv := &http.Server{
		Handler: router,
		Addr:    cfg.ListenAddr,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.WithField("signal", fmt.Sprintf("%v", sig)).Info("shutting down server")

	if err := srv.Close(); err != nil {
		log.WithError(err).Error("server close error")
	}
	return nil
}

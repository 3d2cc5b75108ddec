package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/spacehunter/Star-Raiders-sub000/logging"
	"github.com/spacehunter/Star-Raiders-sub000/server"
)

var (
	serveAddr        string
	serveConfigPath  string
	serveDifficulty  string
	serveSeed        int64
	serveTickRate    int
	serveLogLevel    string
	serveWatchConfig bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the engine with the websocket observer bridge",
	Long: "serve starts a real-time mission and exposes it to observers over\n" +
		"websockets, with a JSON status endpoint for scraping.",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(serveLogLevel)
		if err != nil {
			return err
		}
		logger := logging.New(level)

		cfg, err := loadTuning(serveConfigPath, serveDifficulty, serveSeed, serveTickRate)
		if err != nil {
			return err
		}

		srv, err := server.NewServer(cfg, logger)
		if err != nil {
			return err
		}
		go srv.Run()

		if serveWatchConfig {
			if serveConfigPath == "" {
				return fmt.Errorf("--watch-config requires --config")
			}
			watcher, err := watchTuning(srv, serveConfigPath, logger)
			if err != nil {
				return err
			}
			defer watcher.Close()
		}

		mux := http.NewServeMux()
		mux.HandleFunc("/ws", srv.HandleWebSocket)
		mux.HandleFunc("/api/status", srv.HandleStatus)
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})

		httpSrv := &http.Server{
			Addr:         serveAddr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		go func() {
			logger.Info("observer bridge listening", "addr", serveAddr)
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("http server failed", "error", err)
				os.Exit(1)
			}
		}()

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigs
		logger.Info("shutting down", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		srv.Stop()
		if err := httpSrv.Shutdown(ctx); err != nil {
			logger.Warn("http shutdown failed", "error", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "HTTP listen address for observers")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to mission tuning YAML")
	serveCmd.Flags().StringVar(&serveDifficulty, "difficulty", "", "Difficulty override: novice, pilot, warrior, commander")
	serveCmd.Flags().Int64Var(&serveSeed, "seed", 0, "Mission seed override (0 seeds from the clock)")
	serveCmd.Flags().IntVar(&serveTickRate, "tick-rate", 0, "Engine tick rate override in Hz")
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	serveCmd.Flags().BoolVar(&serveWatchConfig, "watch-config", false, "Hot-reload the tuning file on change")
}

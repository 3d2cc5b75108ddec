package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/spacehunter/Star-Raiders-sub000/config"
	"github.com/spacehunter/Star-Raiders-sub000/server"
)

var rootCmd = &cobra.Command{
	Use:   "starsim",
	Short: "Star-Raiders-style hostile behavior simulator",
	Long: "starsim runs a sector-based space combat engine: per-entity hostile\n" +
		"behavior machines, a strategic siege layer on the galactic chart, and a\n" +
		"scripted player to fight against. Missions stream telemetry to stdout,\n" +
		"a terminal chart or GreptimeDB, and serve observers over websockets.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
}

// loadTuning loads the mission tuning and applies CLI overrides on top.
func loadTuning(path, difficulty string, seed int64, tickRate int) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if difficulty != "" {
		cfg.Difficulty = difficulty
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if tickRate != 0 {
		cfg.TickRate = tickRate
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// watchTuning hot-reloads the tuning file into the running engine. The
// engine applies the safe subset at its next tick boundary.
func watchTuning(srv *server.Server, path string, log *slog.Logger) (*config.Watcher, error) {
	watcher, err := config.NewWatcher(path)
	if err != nil {
		return nil, err
	}
	go func() {
		for {
			select {
			case p, ok := <-watcher.Events:
				if !ok {
					return
				}
				cfg, err := config.Load(p)
				if err != nil {
					log.Warn("tuning reload rejected", "error", err)
					continue
				}
				srv.ApplyTuning(cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("tuning watcher error", "error", err)
			}
		}
	}()
	return watcher, nil
}

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spacehunter/Star-Raiders-sub000/logging"
	"github.com/spacehunter/Star-Raiders-sub000/server"
)

var (
	simConfigPath  string
	simDifficulty  string
	simSeed        int64
	simTickRate    int
	simDuration    float64
	simSpeed       float64
	simWatch       bool
	simGreptime    string
	simGreptimeDB  string
	simLogLevel    string
	simWatchConfig bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a headless mission and stream telemetry",
	Long: "simulate drives a mission without observers: telemetry goes to stdout,\n" +
		"an interactive terminal chart (--watch) or GreptimeDB, and a summary is\n" +
		"printed when the mission settles or the duration runs out.",
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(simLogLevel)
		if err != nil {
			return err
		}
		logger := logging.New(level)
		if simWatch {
			// The chart program owns the terminal.
			logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		}

		cfg, err := loadTuning(simConfigPath, simDifficulty, simSeed, simTickRate)
		if err != nil {
			return err
		}

		srv, err := server.NewServer(cfg, logger)
		if err != nil {
			return err
		}

		if simWatchConfig {
			if simConfigPath == "" {
				return fmt.Errorf("--watch-config requires --config")
			}
			watcher, err := watchTuning(srv, simConfigPath, logger)
			if err != nil {
				return err
			}
			defer watcher.Close()
		}

		if simWatch {
			tw := server.NewTUIWriter(cfg)
			srv.AddTickWriter(tw)
			srv.AddEventWriter(tw)
		} else {
			sw := server.NewStdoutWriter(cfg)
			srv.AddTickWriter(sw)
			srv.AddEventWriter(sw)
		}
		if simGreptime != "" {
			gw, err := server.NewGreptimeDBWriter(simGreptime, simGreptimeDB)
			if err != nil {
				return fmt.Errorf("greptime sink: %w", err)
			}
			srv.AddTickWriter(gw)
			srv.AddEventWriter(gw)
		}

		stop := make(chan struct{})
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigs
			close(stop)
		}()

		srv.RunHeadless(stop, simDuration, simSpeed)
		srv.CloseWriters()

		printMissionSummary(srv.Summary())
		return nil
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simConfigPath, "config", "", "Path to mission tuning YAML")
	simulateCmd.Flags().StringVar(&simDifficulty, "difficulty", "", "Difficulty override: novice, pilot, warrior, commander")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "Mission seed override (0 seeds from the clock)")
	simulateCmd.Flags().IntVar(&simTickRate, "tick-rate", 0, "Engine tick rate override in Hz")
	simulateCmd.Flags().Float64Var(&simDuration, "duration", 300, "Simulated seconds to run")
	simulateCmd.Flags().Float64Var(&simSpeed, "speed", 1.0, "Wall-clock speed multiplier (0 runs unpaced)")
	simulateCmd.Flags().BoolVar(&simWatch, "watch", false, "Show the interactive terminal chart")
	simulateCmd.Flags().StringVar(&simGreptime, "greptime-endpoint", "", "GreptimeDB endpoint for the telemetry sink")
	simulateCmd.Flags().StringVar(&simGreptimeDB, "greptime-db", "public", "GreptimeDB database name")
	simulateCmd.Flags().StringVar(&simLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	simulateCmd.Flags().BoolVar(&simWatchConfig, "watch-config", false, "Hot-reload the tuning file on change")
}

func printMissionSummary(sum server.MissionSummary) {
	fmt.Printf("\n=== MISSION SUMMARY ===\n")
	fmt.Printf("Mission:     %s\n", sum.MissionID)
	fmt.Printf("Outcome:     %s\n", sum.Status)
	fmt.Printf("Score:       %d\n", sum.Score)
	fmt.Printf("Sim time:    %.1fs over %d frames\n", sum.SimTime, sum.Frames)
	fmt.Printf("Units left:  %d\n", sum.UnitsLeft)
	fmt.Printf("Starbases:   %d\n", sum.StarbasesLeft)
	fmt.Printf("Sector:      %d,%d\n", sum.SectorX, sum.SectorY)
}

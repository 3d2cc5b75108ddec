package server

import (
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/spacehunter/Star-Raiders-sub000/config"
	"github.com/spacehunter/Star-Raiders-sub000/telemetry"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

// StdoutWriter prints human-friendly, colorized engine telemetry. Tick
// rows are down-sampled to roughly one line per simulated second so a
// 60 Hz engine does not flood the terminal; events always print.
type StdoutWriter struct {
	cfg         *config.Config
	out         io.Writer
	once        sync.Once
	sampleEvery float64
	nextSample  float64
}

// NewStdoutWriter creates a StdoutWriter writing to os.Stdout.
func NewStdoutWriter(cfg *config.Config) *StdoutWriter {
	return &StdoutWriter{
		cfg:         cfg,
		out:         os.Stdout,
		sampleEvery: 1.0,
	}
}

func (w *StdoutWriter) printOverview() {
	if w.cfg == nil {
		return
	}

	fmt.Fprintln(w.out, "Mission Configuration:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Difficulty:\t%s\n", w.cfg.Difficulty)
	fmt.Fprintf(tw, "Tick Rate:\t%d\n", w.cfg.TickRate)
	fmt.Fprintf(tw, "Galaxy:\t%dx%d\n", w.cfg.Galaxy.Cols, w.cfg.Galaxy.Rows)
	fmt.Fprintf(tw, "Siege Interval (s):\t%.0f\n", w.cfg.Siege.IntervalSec)
	fmt.Fprintf(tw, "Siege Destruction (s):\t%.0f\n", w.cfg.Siege.DestructionSec)
	fmt.Fprintf(tw, "Max Live Hostiles:\t%d\n", w.cfg.Spawn.MaxLive)
	fmt.Fprintf(tw, "Flight Script:\t%s\n", w.cfg.Flight.Script)
	tw.Flush()
	fmt.Fprintln(w.out)
}

func alertColor(alert string) string {
	switch alert {
	case "red":
		return colorRed
	case "yellow":
		return colorYellow
	}
	return colorGreen
}

func eventColor(eventType string) string {
	switch eventType {
	case telemetry.EventDestroyed, telemetry.EventStarbaseLost, telemetry.EventMissionOver:
		return colorRed
	case telemetry.EventSurrounded, telemetry.EventCountdown60, telemetry.EventCountdown30:
		return colorMagenta
	case telemetry.EventSurroundBroken:
		return colorGreen
	case telemetry.EventWarp, telemetry.EventSiegeTarget:
		return colorBlue
	case telemetry.EventSpawn:
		return colorCyan
	}
	return colorYellow
}

// WriteTick outputs a down-sampled tick row in colorized format.
func (w *StdoutWriter) WriteTick(row telemetry.Row) error {
	w.once.Do(w.printOverview)

	if row.SimTime < w.nextSample {
		return nil
	}
	w.nextSample = row.SimTime + w.sampleEvery

	aColor := alertColor(row.Alert)
	fmt.Fprintf(w.out, "%s[%s]%s ", colorGray, row.Timestamp.Format(time.RFC3339), colorReset)
	fmt.Fprintf(w.out, "%st=%.1f%s ", colorBlue, row.SimTime, colorReset)
	fmt.Fprintf(w.out, "%ssector=%d,%d%s ", colorCyan, row.SectorX, row.SectorY, colorReset)
	fmt.Fprintf(w.out, "%sfighters=%d%s ", colorGreen, row.Fighters, colorReset)
	fmt.Fprintf(w.out, "%scruisers=%d%s ", colorYellow, row.Cruisers, colorReset)
	fmt.Fprintf(w.out, "%sbasestars=%d%s ", colorMagenta, row.Basestars, colorReset)
	fmt.Fprintf(w.out, "%sshots=%d%s ", colorGray, row.Shots, colorReset)
	fmt.Fprintf(w.out, "%salert=%s%s", aColor, row.Alert, colorReset)
	if row.Siege {
		fmt.Fprintf(w.out, " %ssiege%s", colorMagenta, colorReset)
	}
	fmt.Fprintln(w.out)
	return nil
}

// WriteEvents outputs every event, one line each.
func (w *StdoutWriter) WriteEvents(events []telemetry.EventRow) error {
	w.once.Do(w.printOverview)

	for _, ev := range events {
		eColor := eventColor(ev.EventType)
		fmt.Fprintf(w.out, "%s[%s]%s ", colorGray, ev.Timestamp.Format(time.RFC3339), colorReset)
		fmt.Fprintf(w.out, "%s%s%s ", eColor, ev.EventType, colorReset)
		fmt.Fprintf(w.out, "%ssector=%d,%d%s", colorCyan, ev.SectorX, ev.SectorY, colorReset)
		if ev.Kind != "" {
			fmt.Fprintf(w.out, " %skind=%s%s", colorYellow, ev.Kind, colorReset)
		}
		if ev.Detail != "" {
			fmt.Fprintf(w.out, " %s%s%s", colorGray, ev.Detail, colorReset)
		}
		fmt.Fprintln(w.out)
	}
	return nil
}

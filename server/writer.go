package server

import "github.com/spacehunter/Star-Raiders-sub000/telemetry"

// TickWriter sinks one engine tick sample.
type TickWriter interface {
	WriteTick(telemetry.Row) error
}

// EventWriter sinks a batch of discrete mission events.
type EventWriter interface {
	WriteEvents([]telemetry.EventRow) error
}

// WriterCloser is implemented by sinks holding connections or terminals
// that need an orderly shutdown.
type WriterCloser interface {
	Close() error
}

// CloseWriters shuts down every registered sink that supports it.
func (s *Server) CloseWriters() {
	seen := make(map[WriterCloser]bool)
	for _, w := range s.tickWriters {
		if c, ok := w.(WriterCloser); ok && !seen[c] {
			seen[c] = true
			if err := c.Close(); err != nil {
				s.log.Warn("telemetry writer close failed", "error", err)
			}
		}
	}
	for _, w := range s.eventWriters {
		if c, ok := w.(WriterCloser); ok && !seen[c] {
			seen[c] = true
			if err := c.Close(); err != nil {
				s.log.Warn("telemetry writer close failed", "error", err)
			}
		}
	}
}

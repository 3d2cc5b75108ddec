// Telemetry rows with greptime tags
package telemetry

import (
	"os"
	"time"
)

// Row represents one engine tick sample for GreptimeDB.
type Row struct {
	MissionID string    `json:"mission_id"` // TAG
	Frame     uint64    `json:"frame"`      // FIELD
	SimTime   float64   `json:"sim_time"`   // FIELD
	Fighters  int       `json:"fighters"`   // FIELD
	Cruisers  int       `json:"cruisers"`   // FIELD
	Basestars int       `json:"basestars"`  // FIELD
	Shots     int       `json:"shots"`      // FIELD
	SectorX   int       `json:"sector_x"`   // FIELD
	SectorY   int       `json:"sector_y"`   // FIELD
	Alert     string    `json:"alert"`      // FIELD
	Siege     bool      `json:"siege"`      // FIELD
	Timestamp time.Time `json:"ts"`         // TIME INDEX
}

// RowTableName holds the table name used when writing tick rows to
// GreptimeDB. It defaults to "engine_ticks" but can be overridden via
// the GREPTIMEDB_TICK_TABLE environment variable.
var RowTableName = func() string {
	if env := os.Getenv("GREPTIMEDB_TICK_TABLE"); env != "" {
		return env
	}
	return "engine_ticks"
}()

func (Row) TableName() string {
	return RowTableName
}

// Discrete engine event types.
const (
	EventSpawn          = "spawn"
	EventDestroyed      = "destroyed"
	EventWarp           = "warp"
	EventAlert          = "alert"
	EventSiegeTarget    = "siege_target"
	EventSurrounded     = "surrounded"
	EventSurroundBroken = "surround_broken"
	EventCountdown60    = "countdown_60"
	EventCountdown30    = "countdown_30"
	EventStarbaseLost   = "starbase_lost"
	EventMissionOver    = "mission_over"
)

// EventRow represents one discrete engine event for GreptimeDB.
type EventRow struct {
	MissionID string    `json:"mission_id"` // TAG
	EventType string    `json:"event_type"` // TAG
	Subject   string    `json:"subject,omitempty"`
	Kind      string    `json:"kind,omitempty"`
	SectorX   int       `json:"sector_x"`
	SectorY   int       `json:"sector_y"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"ts"` // TIME INDEX
}

// EventTableName holds the table name used when writing event rows to
// GreptimeDB, overridable via GREPTIMEDB_EVENT_TABLE.
var EventTableName = func() string {
	if env := os.Getenv("GREPTIMEDB_EVENT_TABLE"); env != "" {
		return env
	}
	return "engine_events"
}()

func (EventRow) TableName() string {
	return EventTableName
}

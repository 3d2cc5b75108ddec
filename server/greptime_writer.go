package server

import (
	"context"
	"fmt"

	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	ingesterContext "github.com/GreptimeTeam/greptimedb-ingester-go/context"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"github.com/spacehunter/Star-Raiders-sub000/telemetry"
)

// GreptimeDBWriter writes engine telemetry to GreptimeDB via the
// ingester client, one table for tick rows and one for events.
type GreptimeDBWriter struct {
	client greptime.Client
	db     string
}

// NewGreptimeDBWriter creates a GreptimeDB writer and auto-creates both
// tables if needed.
func NewGreptimeDBWriter(endpoint, database string) (*GreptimeDBWriter, error) {
	ctx := ingesterContext.NewContext(context.Background())
	client, err := greptime.NewClient(ctx, &greptime.Config{
		Endpoint: endpoint,
	})
	if err != nil {
		return nil, err
	}

	tickDDL := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
  mission_id STRING TAG,
  frame DOUBLE,
  sim_time DOUBLE,
  fighters DOUBLE,
  cruisers DOUBLE,
  basestars DOUBLE,
  shots DOUBLE,
  sector_x DOUBLE,
  sector_y DOUBLE,
  alert STRING,
  siege STRING,
  ts TIMESTAMP TIME INDEX
) WITH (ttl='30d')
`, telemetry.Row{}.TableName())
	if _, err := client.SQL(ctx, tickDDL); err != nil {
		return nil, err
	}

	eventDDL := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
  mission_id STRING TAG,
  event_type STRING TAG,
  subject STRING,
  kind STRING,
  sector_x DOUBLE,
  sector_y DOUBLE,
  detail STRING,
  ts TIMESTAMP TIME INDEX
) WITH (ttl='30d')
`, telemetry.EventRow{}.TableName())
	if _, err := client.SQL(ctx, eventDDL); err != nil {
		return nil, err
	}

	return &GreptimeDBWriter{
		client: client,
		db:     database,
	}, nil
}

// WriteTick inserts a single tick row.
func (w *GreptimeDBWriter) WriteTick(row telemetry.Row) error {
	ctx := ingesterContext.NewContext(context.Background())

	siege := "no"
	if row.Siege {
		siege = "yes"
	}

	tbl := table.New(telemetry.Row{}.TableName())
	tbl.AddTagColumn("mission_id", types.StringType, 0)
	tbl.AddFieldColumn("frame", types.Float64Type)
	tbl.AddFieldColumn("sim_time", types.Float64Type)
	tbl.AddFieldColumn("fighters", types.Float64Type)
	tbl.AddFieldColumn("cruisers", types.Float64Type)
	tbl.AddFieldColumn("basestars", types.Float64Type)
	tbl.AddFieldColumn("shots", types.Float64Type)
	tbl.AddFieldColumn("sector_x", types.Float64Type)
	tbl.AddFieldColumn("sector_y", types.Float64Type)
	tbl.AddFieldColumn("alert", types.StringType)
	tbl.AddFieldColumn("siege", types.StringType)
	tbl.SetTimeIndex("ts", types.TimestampType)

	tbl.AppendTagValue("mission_id", row.MissionID)
	tbl.AppendFieldValue("frame", float64(row.Frame))
	tbl.AppendFieldValue("sim_time", row.SimTime)
	tbl.AppendFieldValue("fighters", float64(row.Fighters))
	tbl.AppendFieldValue("cruisers", float64(row.Cruisers))
	tbl.AppendFieldValue("basestars", float64(row.Basestars))
	tbl.AppendFieldValue("shots", float64(row.Shots))
	tbl.AppendFieldValue("sector_x", float64(row.SectorX))
	tbl.AppendFieldValue("sector_y", float64(row.SectorY))
	tbl.AppendFieldValue("alert", row.Alert)
	tbl.AppendFieldValue("siege", siege)
	tbl.AppendTimeIndex(row.Timestamp)

	return w.client.Write(ctx, w.db, []*table.Table{tbl})
}

// WriteEvents inserts a batch of event rows.
func (w *GreptimeDBWriter) WriteEvents(events []telemetry.EventRow) error {
	if len(events) == 0 {
		return nil
	}

	ctx := ingesterContext.NewContext(context.Background())

	tbl := table.New(telemetry.EventRow{}.TableName())
	tbl.AddTagColumn("mission_id", types.StringType, 0)
	tbl.AddTagColumn("event_type", types.StringType, 0)
	tbl.AddFieldColumn("subject", types.StringType)
	tbl.AddFieldColumn("kind", types.StringType)
	tbl.AddFieldColumn("sector_x", types.Float64Type)
	tbl.AddFieldColumn("sector_y", types.Float64Type)
	tbl.AddFieldColumn("detail", types.StringType)
	tbl.SetTimeIndex("ts", types.TimestampType)

	for _, ev := range events {
		tbl.AppendTagValue("mission_id", ev.MissionID)
		tbl.AppendTagValue("event_type", ev.EventType)
		tbl.AppendFieldValue("subject", ev.Subject)
		tbl.AppendFieldValue("kind", ev.Kind)
		tbl.AppendFieldValue("sector_x", float64(ev.SectorX))
		tbl.AppendFieldValue("sector_y", float64(ev.SectorY))
		tbl.AppendFieldValue("detail", ev.Detail)
		tbl.AppendTimeIndex(ev.Timestamp)
	}

	return w.client.Write(ctx, w.db, []*table.Table{tbl})
}

package report

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"sirsim/internal/record"
)

const (
	// DefaultTrajectoryTable receives one row per run and day.
	DefaultTrajectoryTable = "sir_trajectory"
	// DefaultSummaryTable receives one row per run.
	DefaultSummaryTable = "sir_summary"

	defaultGreptimePort = 4001
	writeTimeout        = 30 * time.Second
)

type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes trajectories and summaries to GreptimeDB via the
// ingester client. Tables are created on first write.
type GreptimeDBWriter struct {
	client          greptimeClient
	trajectoryTable string
	summaryTable    string
	log             *slog.Logger
}

// NewGreptimeDBWriter connects to endpoint ("host" or "host:port"). Empty
// table names fall back to the defaults.
func NewGreptimeDBWriter(endpoint, database, trajectoryTable, summaryTable string) (*GreptimeDBWriter, error) {
	host, port, err := splitEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("greptime client: %w", err)
	}
	if trajectoryTable == "" {
		trajectoryTable = DefaultTrajectoryTable
	}
	if summaryTable == "" {
		summaryTable = DefaultSummaryTable
	}
	return &GreptimeDBWriter{
		client:          client,
		trajectoryTable: trajectoryTable,
		summaryTable:    summaryTable,
		log:             slog.Default().With("component", "GreptimeDBWriter"),
	}, nil
}

func splitEndpoint(endpoint string) (string, int, error) {
	if endpoint == "" {
		return "", 0, fmt.Errorf("greptime endpoint is empty")
	}
	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		return endpoint, defaultGreptimePort, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid greptime port %q", portStr)
	}
	return host, port, nil
}

func (w *GreptimeDBWriter) logger() *slog.Logger {
	if w.log == nil {
		return slog.Default()
	}
	return w.log
}

// WriteTrajectory inserts a single trajectory row.
func (w *GreptimeDBWriter) WriteTrajectory(row record.TrajectoryRow) error {
	return w.WriteTrajectories([]record.TrajectoryRow{row})
}

// WriteTrajectories inserts multiple trajectory rows in one request.
func (w *GreptimeDBWriter) WriteTrajectories(rows []record.TrajectoryRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.trajectoryTable)
	if err != nil {
		return err
	}
	if err := addColumns(tbl,
		tagColumn("run_id"),
		tagColumn("scenario"),
		fieldColumn("day", types.INT64),
		fieldColumn("s", types.FLOAT64),
		fieldColumn("i", types.FLOAT64),
		fieldColumn("r", types.FLOAT64),
		fieldColumn("gamma_eff", types.FLOAT64),
		fieldColumn("overloaded", types.BOOLEAN),
	); err != nil {
		return err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}
	for _, r := range rows {
		if err := tbl.AddRow(r.RunID, r.Scenario, int64(r.Day), r.S, r.I, r.R, r.GammaEff, r.Overloaded, r.Timestamp); err != nil {
			return err
		}
	}
	return w.write(w.trajectoryTable, tbl, len(rows))
}

// WriteSummary inserts a single summary row.
func (w *GreptimeDBWriter) WriteSummary(row record.SummaryRow) error {
	return w.WriteSummaries([]record.SummaryRow{row})
}

// WriteSummaries inserts multiple summary rows in one request.
func (w *GreptimeDBWriter) WriteSummaries(rows []record.SummaryRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.summaryTable)
	if err != nil {
		return err
	}
	if err := addColumns(tbl,
		tagColumn("run_id"),
		tagColumn("scenario"),
		fieldColumn("population", types.FLOAT64),
		fieldColumn("beta", types.FLOAT64),
		fieldColumn("gamma_base", types.FLOAT64),
		fieldColumn("capacity", types.FLOAT64),
		fieldColumn("r0", types.FLOAT64),
		fieldColumn("i_max", types.FLOAT64),
		fieldColumn("t_peak", types.INT64),
		fieldColumn("t_breach", types.INT64),
		fieldColumn("r_infinity", types.FLOAT64),
		fieldColumn("t_end", types.INT64),
		fieldColumn("final_n_check", types.FLOAT64),
		fieldColumn("max_overload_factor", types.FLOAT64),
	); err != nil {
		return err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}
	for _, r := range rows {
		if err := tbl.AddRow(r.RunID, r.Scenario, r.Population, r.Beta, r.GammaBase, r.Capacity, r.R0,
			r.IMax, int64(r.TPeak), int64(r.TBreach), r.RInfinity, int64(r.TEnd), r.FinalNCheck,
			r.MaxOverloadFactor, r.Timestamp); err != nil {
			return err
		}
	}
	return w.write(w.summaryTable, tbl, len(rows))
}

func (w *GreptimeDBWriter) write(name string, tbl *table.Table, n int) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if _, err := w.client.Write(ctx, tbl); err != nil {
		w.logger().Error("write failed", "table", name, "error", err)
		return err
	}
	w.logger().Debug("rows written", "table", name, "rows", n)
	return nil
}

type column struct {
	name string
	typ  types.ColumnType
	tag  bool
}

func tagColumn(name string) column { return column{name: name, typ: types.STRING, tag: true} }

func fieldColumn(name string, typ types.ColumnType) column { return column{name: name, typ: typ} }

func addColumns(tbl *table.Table, cols ...column) error {
	for _, c := range cols {
		var err error
		if c.tag {
			err = tbl.AddTagColumn(c.name, c.typ)
		} else {
			err = tbl.AddFieldColumn(c.name, c.typ)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

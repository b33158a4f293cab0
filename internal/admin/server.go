package admin

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"sirsim/internal/chart"
	"sirsim/internal/config"
	"sirsim/internal/record"
	"sirsim/internal/scenario"
)

// Server is a read-only HTTP view over a completed sweep.
type Server struct {
	cfg      *config.SimulationConfig
	results  []scenario.Result
	findings []scenario.Finding
	tpl      *template.Template
	mux      *http.ServeMux
}

//go:embed templates/index.html
var content embed.FS

func NewServer(cfg *config.SimulationConfig, results []scenario.Result, findings []scenario.Finding) *Server {
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	s := &Server{cfg: cfg, results: results, findings: findings, tpl: tpl, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/results", s.handleResults)
	s.mux.HandleFunc("/findings", s.handleFindings)
	s.mux.HandleFunc("/trajectory", s.handleTrajectory)
	s.mux.HandleFunc("/chart/infectious.png", s.handleInfectiousChart)
	s.mux.HandleFunc("/chart/overload.png", s.handleOverloadChart)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Start serves on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("admin UI listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data := struct {
		Config   *config.SimulationConfig
		Results  []scenario.Result
		Findings []scenario.Finding
	}{s.cfg, s.results, s.findings}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tpl.Execute(w, data); err != nil {
		slog.Error("render index", "error", err)
	}
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	start := time.Unix(0, 0).UTC()
	rows := make([]record.SummaryRow, len(s.results))
	for i, res := range s.results {
		rows[i] = record.Summary(res, start)
	}
	writeJSON(w, rows)
}

func (s *Server) handleFindings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.findings)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (scenario.Result, bool) {
	label := r.URL.Query().Get("label")
	if label == "" {
		http.Error(w, "missing label", http.StatusBadRequest)
		return scenario.Result{}, false
	}
	res, ok := scenario.Find(s.results, label)
	if !ok {
		http.Error(w, "unknown scenario", http.StatusNotFound)
		return scenario.Result{}, false
	}
	return res, true
}

func (s *Server) handleTrajectory(w http.ResponseWriter, r *http.Request) {
	res, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, map[string]any{
		"label":     res.Scenario.Label,
		"run_id":    res.RunID,
		"capacity":  res.Params.Capacity,
		"s":         res.S,
		"i":         res.I,
		"r":         res.R,
		"gamma_eff": res.GammaEff,
	})
}

func (s *Server) handleInfectiousChart(w http.ResponseWriter, r *http.Request) {
	res, ok := s.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := chart.Infectious(w, chart.PNG, res.Scenario.Label, []chart.Series{chart.FromResult(res)}, res.Params.Capacity); err != nil {
		slog.Error("render chart", "scenario", res.Scenario.Label, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleOverloadChart(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	if err := chart.OverloadBars(w, chart.PNG, s.results); err != nil {
		slog.Error("render chart", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

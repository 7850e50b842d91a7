package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"sync"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/cellmap"
	"github.com/hupe1980/cellmap/model"
	"github.com/hupe1980/cellmap/testutil"
)

var reportOrbits = []model.Orbit{
	model.OrbitVertex,
	model.OrbitEdge,
	model.OrbitFace,
	model.OrbitVolume,
}

// degreeOf names, per orbit, the incident orbit whose count is reported as
// the cell degree.
var degreeOf = map[model.Orbit]model.Orbit{
	model.OrbitVertex: model.OrbitEdge,
	model.OrbitEdge:   model.OrbitFace,
	model.OrbitFace:   model.OrbitVertex,
	model.OrbitVolume: model.OrbitFace,
}

type config struct {
	fixture string
	build   func(*testutil.Map2)
	threads int
	quick   bool
	output  string
	verbose bool
}

// Report is the cmapstat output.
type Report struct {
	Fixture       string                    `yaml:"fixture"`
	MapID         string                    `yaml:"map_id"`
	Darts         int                       `yaml:"darts"`
	BoundaryDarts int                       `yaml:"boundary_darts"`
	Orbits        []OrbitReport             `yaml:"orbits"`
	Consistent    bool                      `yaml:"consistent"`
	Violations    []string                  `yaml:"violations,omitempty"`
	Metrics       cellmap.BasicMetricsStats `yaml:"metrics"`
}

// OrbitReport summarizes one orbit.
type OrbitReport struct {
	Orbit     string `yaml:"orbit"`
	Cells     int    `yaml:"cells"`
	Records   int    `yaml:"records"`
	MinDegree int    `yaml:"min_degree"`
	MaxDegree int    `yaml:"max_degree"`
}

func run(w io.Writer, cfg config) error {
	if cfg.output != "table" && cfg.output != "yaml" {
		return fmt.Errorf("unknown output format %q", cfg.output)
	}

	report, err := buildReport(cfg)
	if err != nil {
		return err
	}

	if cfg.output == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	}
	writeTable(w, report)
	return nil
}

func buildReport(cfg config) (*Report, error) {
	metrics := &cellmap.BasicMetricsCollector{}
	opts := []cellmap.Option{
		cellmap.WithThreads(cfg.threads),
		cellmap.WithMetricsCollector(metrics),
	}
	if cfg.verbose {
		opts = append(opts, cellmap.WithLogger(cellmap.NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))))
	}

	t := testutil.NewMap2(opts...)
	cfg.build(t)
	t.Close()
	m := t.M

	for _, orbit := range reportOrbits {
		m.InitAllOrbitsEmbedding(orbit, false)
		if cfg.quick {
			m.EnableQuickTraversal(orbit)
			m.EnableQuickIncidentTraversal(orbit, degreeOf[orbit])
		}
	}

	report := &Report{
		Fixture: cfg.fixture,
		MapID:   m.ID().String(),
		Darts:   m.NbDarts(),
	}
	for d := range m.Darts() {
		if m.IsBoundaryMarkedCurrent(d) {
			report.BoundaryDarts++
		}
	}

	for _, orbit := range reportOrbits {
		or, err := orbitReport(m, orbit)
		if err != nil {
			return nil, err
		}
		report.Orbits = append(report.Orbits, or)
	}

	report.Consistent = true
	if err := m.Check(); err != nil {
		report.Consistent = false
		report.Violations = append(report.Violations, err.Error())
	}
	report.Metrics = metrics.GetStats()
	return report, nil
}

func orbitReport(m *cellmap.Map, orbit model.Orbit) (OrbitReport, error) {
	var (
		mu     sync.Mutex
		lo, hi = -1, 0
	)
	err := m.ParallelForEachCell(context.Background(), orbit, func(_ int, d model.Dart) error {
		n := 0
		for range m.Incident(orbit, degreeOf[orbit], d) {
			n++
		}
		mu.Lock()
		defer mu.Unlock()
		if lo < 0 || n < lo {
			lo = n
		}
		hi = max(hi, n)
		return nil
	})
	if err != nil {
		return OrbitReport{}, err
	}

	return OrbitReport{
		Orbit:     orbit.String(),
		Cells:     m.NbOrbits(orbit),
		Records:   m.NbCells(orbit),
		MinDegree: max(lo, 0),
		MaxDegree: hi,
	}, nil
}

func writeTable(w io.Writer, r *Report) {
	fmt.Fprintf(w, "%s (%d darts, %d on the boundary)\n", r.Fixture, r.Darts, r.BoundaryDarts)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"orbit", "cells", "records", "min degree", "max degree"})
	for _, o := range r.Orbits {
		table.Append([]string{
			o.Orbit,
			strconv.Itoa(o.Cells),
			strconv.Itoa(o.Records),
			strconv.Itoa(o.MinDegree),
			strconv.Itoa(o.MaxDegree),
		})
	}
	table.Render()

	if r.Consistent {
		fmt.Fprintln(w, "consistent")
		return
	}
	for _, v := range r.Violations {
		fmt.Fprintln(w, v)
	}
}

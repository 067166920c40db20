// Command edt builds a timetabling constraint model from entity CSV files and
// solves it inside a time budget, exporting the resulting schedule.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/golang/glog"

	"github.com/ingemedia/timetable/internal/config"
	"github.com/ingemedia/timetable/internal/csvio"
	"github.com/ingemedia/timetable/internal/entity"
	"github.com/ingemedia/timetable/internal/export"
	"github.com/ingemedia/timetable/internal/schedule"
	"github.com/ingemedia/timetable/internal/timegrid"
)

func main() {
	configFile := flag.String("config", "config.json", "planning run configuration file")
	dumpCNF := flag.String("dump-cnf", "", "write the generated instance in DIMACS form to this file and keep going")
	flag.Parse()
	defer glog.Flush()

	if err := run(*configFile, *dumpCNF); err != nil {
		glog.Errorf("run failed: %v", err)
		glog.Flush()
		os.Exit(1)
	}
}

func run(configFile, dumpCNF string) error {
	cfg, err := config.FromJSON(configFile)
	if err != nil {
		return err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	grid := timegrid.DefaultGrid()
	calendar, err := timegrid.NewCalendar(timegrid.CalendarSpec{
		Year:     cfg.Year,
		Month:    time.Month(cfg.Month),
		Weeks:    cfg.Weeks,
		Holidays: cfg.Holidays,
		From:     cfg.From,
		To:       cfg.To,
	}, grid)
	if err != nil {
		return err
	}

	roster, err := csvio.LoadRoster(cfg.Data.Rooms, cfg.Data.Teachers, cfg.Data.Groups, cfg.Data.Courses)
	if err != nil {
		return err
	}
	glog.Infof("loaded %d rooms, %d teachers, %d courses",
		len(roster.Rooms), len(roster.Teachers), len(roster.Courses))

	sessions, err := entity.SplitCourses(roster.Courses, roster.Groups)
	if err != nil {
		return err
	}

	problem, err := schedule.BuildProblem(roster, sessions, calendar, grid,
		schedule.BreakWindow{Start: cfg.BreakStart, End: cfg.BreakEnd}, logObserver{})
	if err != nil {
		return err
	}

	if dumpCNF != "" {
		if err := os.WriteFile(dumpCNF, []byte(problem.Model.ToDIMACS()), 0o644); err != nil {
			return fmt.Errorf("cnf dump: %w", err)
		}
		glog.Infof("wrote %s", dumpCNF)
	}

	driver := schedule.NewDriver(problem, schedule.SolveConfig{
		Budget:     cfg.Budget(),
		Workers:    cfg.Workers,
		MaxClauses: cfg.MaxClauses,
	}, logObserver{})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := driver.Solve(ctx)
	if err != nil {
		return err
	}

	switch result.Status {
	case schedule.StatusOptimal, schedule.StatusFeasible:
		glog.Infof("%s: %d sessions placed", result.Status, len(result.Assignment))
	case schedule.StatusInfeasible:
		return fmt.Errorf("no schedule satisfies the constraints")
	default:
		return fmt.Errorf("search exhausted the budget without a verdict")
	}

	if cfg.Output.CSV != "" {
		if err := csvio.WriteAssignment(cfg.Output.CSV, result.Assignment); err != nil {
			return fmt.Errorf("csv export: %w", err)
		}
		glog.Infof("wrote %s", cfg.Output.CSV)
	}
	if cfg.Output.ICS != "" {
		if err := export.WriteICS(cfg.Output.ICS, result.Assignment); err != nil {
			return fmt.Errorf("ics export: %w", err)
		}
		glog.Infof("wrote %s", cfg.Output.ICS)
	}
	return nil
}

package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitflow/internal/constants"
	"github.com/julianstephens/habitflow/internal/models"
	"github.com/julianstephens/habitflow/internal/report"
)

type ReportCmd struct {
	Daily   ReportDailyCmd   `cmd:"" help:"Completions per day." default:"1"`
	Weekly  ReportWeeklyCmd  `cmd:"" help:"Completions per Monday-to-Sunday week."`
	Monthly ReportMonthlyCmd `cmd:"" help:"Completions per calendar month."`
}

type ReportDailyCmd struct {
	JSON bool `help:"Print the series as JSON."`
	Days int  `help:"Number of trailing days." default:"30"`
}

func (c *ReportDailyCmd) Run(ctx *Context) error {
	if err := report.CheckWindow("days", c.Days, constants.MaxReportDays); err != nil {
		return err
	}
	return runReport(ctx, c.JSON, func(h []models.Habit, today time.Time) report.Series {
		return report.Daily(h, today, c.Days)
	})
}

type ReportWeeklyCmd struct {
	JSON  bool `help:"Print the series as JSON."`
	Weeks int  `help:"Number of trailing weeks." default:"12"`
}

func (c *ReportWeeklyCmd) Run(ctx *Context) error {
	if err := report.CheckWindow("weeks", c.Weeks, constants.MaxReportWeeks); err != nil {
		return err
	}
	return runReport(ctx, c.JSON, func(h []models.Habit, today time.Time) report.Series {
		return report.Weekly(h, today, c.Weeks)
	})
}

type ReportMonthlyCmd struct {
	JSON   bool `help:"Print the series as JSON."`
	Months int  `help:"Number of trailing months." default:"12"`
}

func (c *ReportMonthlyCmd) Run(ctx *Context) error {
	if err := report.CheckWindow("months", c.Months, constants.MaxReportMonths); err != nil {
		return err
	}
	return runReport(ctx, c.JSON, func(h []models.Habit, today time.Time) report.Series {
		return report.Monthly(h, today, c.Months)
	})
}

func runReport(ctx *Context, asJSON bool, build func([]models.Habit, time.Time) report.Series) error {
	if err := ctx.Load(); err != nil {
		return err
	}
	today, err := ctx.Today()
	if err != nil {
		return err
	}

	series := build(ctx.Tracker.Habits(), today)

	if asJSON {
		data, err := json.MarshalIndent(series, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		ctx.Printf("%s\n", data)
		return nil
	}

	peak := 0
	for _, n := range series.Counts {
		peak = max(peak, n)
	}
	for i, label := range series.Labels {
		ctx.Printf("%-10s %3d %s\n", label, series.Counts[i], bar(series.Counts[i], peak, 40))
	}
	ctx.Printf("\nTotal: %d\n", series.Total())
	return nil
}

// bar scales n against peak into at most width blocks.
func bar(n, peak, width int) string {
	if n <= 0 || peak <= 0 {
		return ""
	}
	return strings.Repeat("█", max(1, n*width/peak))
}

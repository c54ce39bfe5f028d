package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"evcast/backend/services/scheduling-service/internal/costtable"
	"evcast/backend/services/scheduling-service/internal/models"
	"evcast/backend/services/scheduling-service/internal/pattern"
)

var errDSNRequired = errors.New("--dsn is required (or set SCHEDULING_POSTGRES_DSN)")

func newMigrateCmd(deps Deps) *cobra.Command {
	var (
		dsn     string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(dsn) == "" {
				return errDSNRequired
			}
			db, err := deps.OpenDB(dsn)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			applied, err := deps.Migrate(ctx, db)
			for _, name := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name)
			}
			if err != nil {
				return err
			}
			deps.Logger.Info("schema migrated", zap.Int("migrations", len(applied)))
			return nil
		},
	}
	dsnFlag(cmd, &dsn)
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "migration timeout")
	return cmd
}

func newCostsCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "costs",
		Short: "Print the location cost table, cheapest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := costtable.NewLoader(path).Load()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RANK\tLOCATION\tMEAN COST (USD)\tSESSIONS")
			for i, e := range table.Ranked() {
				fmt.Fprintf(w, "%d\t%s\t%.2f\t%d\n", i+1, e.Location, e.MeanCost, e.Sessions)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&path, "csv", "data/ev_charging_patterns.csv", "charging patterns CSV")
	return cmd
}

func newOptimalHourCmd(deps Deps) *cobra.Command {
	var dsn, email, model, zone string
	cmd := &cobra.Command{
		Use:   "optimal-hour",
		Short: "Print a user's charging pattern and optimal off-peak hour",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(dsn) == "" {
				return errDSNRequired
			}
			db, err := deps.OpenDB(dsn)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			sessions, err := deps.History(db).ListSessions(cmd.Context(), strings.ToLower(strings.TrimSpace(email)), model)
			if err != nil {
				return err
			}
			p, err := pattern.Analyze(sessions, loc)
			if err != nil {
				return fmt.Errorf("%s / %s: %w", email, model, err)
			}
			printPattern(cmd, p)
			return nil
		},
	}
	dsnFlag(cmd, &dsn)
	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.Flags().StringVar(&model, "model", "", "vehicle model")
	cmd.Flags().StringVar(&zone, "tz", os.Getenv("SCHEDULING_TIME_ZONE"), "time zone bookings are made in (default UTC)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}

func loadZone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("time zone %q: %w", name, err)
	}
	return loc, nil
}

func printPattern(cmd *cobra.Command, p pattern.Pattern) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "sessions: %d (discarded %d)\n", p.Total, p.Discarded)
	fmt.Fprintf(out, "peak sessions: %d (%.1f%%)\n", p.PeakSessions, p.PeakPercentage)
	fmt.Fprintf(out, "optimal hour: %s\n", models.FormatTimeSlot(p.OptimalHour))
	for hour, n := range p.Frequency {
		if n == 0 {
			continue
		}
		fmt.Fprintf(out, "  %s %s %d\n", models.FormatTimeSlot(hour), strings.Repeat("#", n), n)
	}
}

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/danprat/ABSEN-DESA/internal/attendance"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Mark employees without a record as absent",
	Long: `Mark every active employee without an attendance record as absent.
Runs for today by default; use --date for one day or --from/--to to
backfill a range. Non-workdays and holidays are skipped, and existing
records are never touched, so re-running is safe.`,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().String("date", "", "Sweep one day (YYYY-MM-DD, default today)")
	sweepCmd.Flags().String("from", "", "Start of a backfill range (YYYY-MM-DD)")
	sweepCmd.Flags().String("to", "", "End of a backfill range (YYYY-MM-DD, inclusive)")
}

// resolveSweepRange turns the date flags into an inclusive [from, to] range.
func resolveSweepRange(cmd *cobra.Command) (time.Time, time.Time, error) {
	dateFlag := mustGetString(cmd, "date")
	fromFlag := mustGetString(cmd, "from")
	toFlag := mustGetString(cmd, "to")

	if dateFlag != "" && (fromFlag != "" || toFlag != "") {
		return time.Time{}, time.Time{}, fmt.Errorf("--date cannot be combined with --from/--to")
	}

	if fromFlag != "" || toFlag != "" {
		if fromFlag == "" || toFlag == "" {
			return time.Time{}, time.Time{}, fmt.Errorf("--from and --to must be used together")
		}
		from, err := time.Parse("2006-01-02", fromFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from date: %w", err)
		}
		to, err := time.Parse("2006-01-02", toFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --to date: %w", err)
		}
		if to.Before(from) {
			return time.Time{}, time.Time{}, fmt.Errorf("--to is before --from")
		}
		return from, to, nil
	}

	day := time.Now()
	if dateFlag != "" {
		parsed, err := time.Parse("2006-01-02", dateFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --date: %w", err)
		}
		day = parsed
	}
	return day, day, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	from, to, err := resolveSweepRange(cmd)
	if err != nil {
		return err
	}

	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	service := attendance.NewService(b.store, b.audit)
	ctx := context.Background()

	days := int(to.Sub(from).Hours()/24) + 1
	var bar *progressbar.ProgressBar
	if days > 1 {
		bar = progressbar.NewOptions(days,
			progressbar.OptionSetDescription("Sweeping absences"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowElapsedTimeOnFinish(),
		)
	}

	total := 0
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		created, err := service.SweepAbsences(ctx, day)
		if err != nil {
			return fmt.Errorf("sweep %s: %w", day.Format("2006-01-02"), err)
		}
		total += created
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		fmt.Println()
	}

	fmt.Printf("Marked %d employees absent across %d day(s)\n", total, days)
	return nil
}

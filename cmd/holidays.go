package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/danprat/ABSEN-DESA/internal/holiday"
)

var holidaysCmd = &cobra.Command{
	Use:   "holidays",
	Short: "Manage national holidays",
}

var holidaysSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import holidays from the public holiday API",
	Long: `Import Indonesian national holidays and joint-leave days for one
year. Holidays a user has un-marked stay un-marked; manually entered
rows are never touched.`,
	RunE: runHolidaysSync,
}

var holidaysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the stored holidays for one year",
	RunE:  runHolidaysList,
}

func init() {
	rootCmd.AddCommand(holidaysCmd)
	holidaysCmd.AddCommand(holidaysSyncCmd)
	holidaysCmd.AddCommand(holidaysListCmd)

	holidaysSyncCmd.Flags().Int("year", time.Now().Year(), "Calendar year to import")
	holidaysListCmd.Flags().Int("year", time.Now().Year(), "Calendar year to list")
}

func runHolidaysSync(cmd *cobra.Command, args []string) error {
	year := mustGetInt(cmd, "year")

	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	syncer := holiday.NewSyncer(b.store, b.audit, os.Getenv("HOLIDAY_API_URL"))
	stats, err := syncer.Sync(context.Background(), year)
	if err != nil {
		return fmt.Errorf("holiday sync: %w", err)
	}

	fmt.Printf("Holidays for %d: %d added, %d updated, %d skipped\n",
		year, stats.Added, stats.Updated, stats.Skipped)
	return nil
}

func runHolidaysList(cmd *cobra.Command, args []string) error {
	year := mustGetInt(cmd, "year")

	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	holidays, err := b.store.ListHolidays(context.Background(), year)
	if err != nil {
		return fmt.Errorf("list holidays: %w", err)
	}

	if len(holidays) == 0 {
		fmt.Printf("No holidays stored for %d\n", year)
		return nil
	}

	for _, h := range holidays {
		flags := ""
		if h.IsCuti {
			flags += " [cuti bersama]"
		}
		if h.IsExcluded {
			flags += " [excluded]"
		}
		fmt.Printf("%s  %s%s\n", h.Date.Format("2006-01-02"), h.Name, flags)
	}
	return nil
}

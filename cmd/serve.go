package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/danprat/ABSEN-DESA/internal/attendance"
	"github.com/danprat/ABSEN-DESA/internal/holiday"
	"github.com/danprat/ABSEN-DESA/internal/recognize"
	"github.com/danprat/ABSEN-DESA/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the kiosk API server",
	Long: `Start the attendance API server.
The server exposes the kiosk recognition endpoint, employee enrollment,
holiday management, and attendance reporting.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().String("upload-dir", "./uploads", "Directory for enrollment photos")
}

// resolveServeHostPort resolves port and host from flags and environment variables.
func resolveServeHostPort(cmd *cobra.Command) (int, string) {
	port := mustGetInt(cmd, "port")
	host := mustGetString(cmd, "host")

	if envPort := os.Getenv("WEB_PORT"); envPort != "" {
		fmt.Sscanf(envPort, "%d", &port)
	}
	if envHost := os.Getenv("WEB_HOST"); envHost != "" {
		host = envHost
	}
	return port, host
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Connecting to PostgreSQL database...\n")
	b, err := openBackend()
	if err != nil {
		return err
	}
	defer b.Close()

	ctx := context.Background()

	if versions, err := b.pool.MigrationsApplied(ctx); err == nil && len(versions) > 0 {
		fmt.Printf("Database schema at %s (%d migrations applied)\n", versions[len(versions)-1], len(versions))
	}

	// Make sure every day of the week has attendance windows.
	if err := b.store.SeedSchedules(ctx, b.cfg.DefaultSchedules()); err != nil {
		return fmt.Errorf("failed to seed schedules: %w", err)
	}

	engine := recognize.NewEngine(b.store, recognize.Options{
		Dim:         b.cfg.Extractor.Dim,
		UseHNSW:     b.cfg.Recognition.UseHNSW,
		HNSWMinSize: b.cfg.Recognition.HNSWMinSize,
	})

	// Warm the matching cache so the first kiosk frame doesn't pay for
	// the initial load.
	count, err := engine.Refresh(ctx)
	if err != nil {
		fmt.Printf("Warning: failed to warm matching cache: %v\n", err)
		fmt.Printf("The cache will load lazily on the first recognition\n")
	} else {
		fmt.Printf("Matching cache warmed with %d face vectors\n", count)
	}

	extractor := recognize.NewExtractor(b.cfg.Extractor)
	recognizer := recognize.NewRecognizer(engine, extractor, b.store, b.cfg)
	service := attendance.NewService(b.store, b.audit)
	syncer := holiday.NewSyncer(b.store, b.audit, os.Getenv("HOLIDAY_API_URL"))

	port, host := resolveServeHostPort(cmd)
	server := web.NewServer(web.Deps{
		Store:      b.store,
		Audit:      b.audit,
		Recognizer: recognizer,
		Attendance: service,
		Syncer:     syncer,
		UploadDir:  mustGetString(cmd, "upload-dir"),
	}, port, host)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting attendance API on http://%s:%d\n", host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}

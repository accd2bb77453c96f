package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "absen-desa",
	Short: "Face recognition attendance for village offices",
	Long: `Absen Desa is a tap-free attendance system for village offices.
Employees check in and out by looking at a kiosk camera; faces are
matched against enrolled embeddings and attendance records are kept
in PostgreSQL.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"medscan/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "medscan",
	Short: "medscan - extract and track health metrics from scanned medical documents",
	Long: `medscan ingests scanned or photographed medical documents, extracts
structured health measurements from the OCR text, flags values outside
their reference ranges, and tracks a patient's metric history to surface
trends and risk patterns.

Subcommands cover the pipeline end to end: analyze a document, compute
trends over stored analyses, and generate a plain-language summary.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("medscan executed")

		fmt.Println("medscan - medical document analysis")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}

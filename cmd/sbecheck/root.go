// Package main is the sbecheck CLI: a spf13/cobra command tree for
// checking SBE schema evolution compatibility, registering schemas,
// and serving the HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "sbecheck",
	Short: "SBE schema evolution compatibility checker",
	Long: `sbecheck compares two SBE schema versions and reports the
compatibility verdict under which producers and consumers of the two
schemas may interoperate: NoChange, Full, Backward, Forward, or None.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			level = logrus.InfoLevel
		}
		logrus.SetLevel(level)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.AddCommand(compatibilityCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

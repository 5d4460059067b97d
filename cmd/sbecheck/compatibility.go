package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Polqt/sbeschema/internal/sbe/sbeerr"
	"github.com/Polqt/sbeschema/internal/sbe/sbexml"
	"github.com/Polqt/sbeschema/internal/sbe/strategy"
)

const (
	exitSuccess     = 0
	exitDataError   = 1
	exitInternalErr = 2
)

var (
	compatLevelFlag string
	compatLatest    string
	compatCurrent   string
)

// compatibilityCmd checks a candidate schema against a previously
// published one and prints the resulting verdict:
// sbecheck compatibility --level {backward|forward|full|none}
//   --latest <path> --current <path>
var compatibilityCmd = &cobra.Command{
	Use:   "compatibility",
	Short: "Check whether a candidate schema is compatible with a published one",
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		strat, ok := strategy.Parse(compatLevelFlag)
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown --level %q: must be one of backward, forward, full, none\n", compatLevelFlag)
			os.Exit(exitInternalErr)
		}

		latestBytes, err := os.ReadFile(compatLatest)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitInternalErr)
		}
		currentBytes, err := os.ReadFile(compatCurrent)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitInternalErr)
		}

		latest, err := sbexml.Parse(latestBytes)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitInternalErr)
		}
		current, err := sbexml.Parse(currentBytes)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitInternalErr)
		}

		v := strategy.NewValidator(strat)
		level, err := v.Check(latest, current)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			if sbeerr.IsDataError(err) {
				os.Exit(exitDataError)
			}
			os.Exit(exitInternalErr)
		}

		fmt.Println(level)
		os.Exit(exitSuccess)
		return nil
	},
}

func init() {
	compatibilityCmd.Flags().StringVar(&compatLevelFlag, "level", "backward", "minimum acceptable compatibility level (backward|forward|full|none)")
	compatibilityCmd.Flags().StringVar(&compatLatest, "latest", "", "path to the previously published schema")
	compatibilityCmd.Flags().StringVar(&compatCurrent, "current", "", "path to the candidate schema")
	compatibilityCmd.MarkFlagRequired("latest")
	compatibilityCmd.MarkFlagRequired("current")
}

// exitCodeFor maps a cobra-level error (flag parsing, missing required
// flags) — the only errors that ever reach main() given RunE always
// calls os.Exit directly on the compatibility path — to a non-zero
// code.
func exitCodeFor(err error) int {
	if err == nil {
		return exitSuccess
	}
	return exitInternalErr
}

package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Polqt/sbeschema/internal/sbe/model"
	"github.com/Polqt/sbeschema/internal/sbe/sbexml"
)

var (
	diffLatest  string
	diffCurrent string
)

// diffCmd prints a human-readable change list (added/removed messages
// and added/removed/changed fields per message): it matches messages by
// id as the comparator engine does, and fields by id, and renders the
// raw structural differences instead of folding them into a verdict.
var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show structural differences between two schema versions",
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		latestBytes, err := os.ReadFile(diffLatest)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitInternalErr)
		}
		currentBytes, err := os.ReadFile(diffCurrent)
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

		changes := diffMessages(latest, current)
		if len(changes) == 0 {
			fmt.Println("no structural changes")
			os.Exit(exitSuccess)
		}
		for _, c := range changes {
			fmt.Println(c)
		}
		os.Exit(exitSuccess)
		return nil
	},
}

// diffMessages renders one line per added or removed message and per
// added, removed, or changed message field, matched by stable id.
// Groups and data entries are not listed.
func diffMessages(latest, current model.Schema) []string {
	var out []string

	latestByID := make(map[int]model.Message, len(latest.Messages))
	for _, m := range latest.Messages {
		latestByID[m.ID] = m
	}
	currentByID := make(map[int]model.Message, len(current.Messages))
	for _, m := range current.Messages {
		currentByID[m.ID] = m
	}

	for _, m := range sortedMessages(current.Messages) {
		old, existed := latestByID[m.ID]
		if !existed {
			out = append(out, fmt.Sprintf("+ message %s (id=%d)", m.Name, m.ID))
			continue
		}
		out = append(out, diffFields(old, m)...)
	}
	for _, m := range sortedMessages(latest.Messages) {
		if _, stillPresent := currentByID[m.ID]; !stillPresent {
			out = append(out, fmt.Sprintf("- message %s (id=%d)", m.Name, m.ID))
		}
	}
	return out
}

func diffFields(old, updated model.Message) []string {
	var out []string

	oldByID := make(map[int]model.Field, len(old.Fields))
	for _, f := range old.Fields {
		oldByID[f.ID] = f
	}
	newByID := make(map[int]model.Field, len(updated.Fields))
	for _, f := range updated.Fields {
		newByID[f.ID] = f
	}

	for _, f := range sortedFields(updated.Fields) {
		if o, existed := oldByID[f.ID]; !existed {
			out = append(out, fmt.Sprintf("+ field %s.%s (id=%d, type=%s, sinceVersion=%d)", updated.Name, f.Name, f.ID, f.Type, f.SinceVersion))
		} else if !o.Equal(f) {
			out = append(out, fmt.Sprintf("~ field %s.%s (id=%d): type %s -> %s, sinceVersion %d -> %d", updated.Name, f.Name, f.ID, o.Type, f.Type, o.SinceVersion, f.SinceVersion))
		}
	}
	for _, f := range sortedFields(old.Fields) {
		if _, stillPresent := newByID[f.ID]; !stillPresent {
			out = append(out, fmt.Sprintf("- field %s.%s (id=%d)", old.Name, f.Name, f.ID))
		}
	}
	return out
}

func sortedMessages(ms []model.Message) []model.Message {
	out := append([]model.Message(nil), ms...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedFields(fs []model.Field) []model.Field {
	out := append([]model.Field(nil), fs...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func init() {
	diffCmd.Flags().StringVar(&diffLatest, "latest", "", "path to the previously published schema")
	diffCmd.Flags().StringVar(&diffCurrent, "current", "", "path to the candidate schema")
	diffCmd.MarkFlagRequired("latest")
	diffCmd.MarkFlagRequired("current")
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// logEntry is the CLI's own flattened view of one recorded event, combining
// EventBase fields read back from the RecordKeeper with the review
// resolution tracked in State — neither the ledger.Event interface nor
// state.EventInfo carries both on its own.
type logEntry struct {
	UUID      string `yaml:"uuid"`
	Kind      string `yaml:"kind"`
	Author    string `yaml:"author"`
	Timestamp string `yaml:"timestamp"`
	Review    string `yaml:"review,omitempty"`
}

func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Inspect a dataset's event log",
	}
	cmd.AddCommand(newLogShowCmd())
	return cmd
}

func newLogShowCmd() *cobra.Command {
	var (
		dataset string
		format  string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a dataset's event log in insertion order",
		RunE: func(_ *cobra.Command, _ []string) error {
			if dataset == "" {
				return fmt.Errorf("--dataset is required")
			}
			ds, _, err := openDataset(flags.storeRoot, dataset)
			if err != nil {
				return err
			}

			rk := ds.RecordKeeper()
			st := ds.State()

			var entries []logEntry
			id, ok, err := rk.Head()
			if err != nil {
				return fmt.Errorf("read head: %w", err)
			}
			for ok {
				event, err := rk.Read(id)
				if err != nil {
					return fmt.Errorf("read event %s: %w", id, err)
				}
				entry := logEntry{
					UUID:      event.Base().UUID.String(),
					Kind:      string(event.Kind()),
					Author:    event.Base().Author,
					Timestamp: event.Base().Timestamp.Format("2006-01-02T15:04:05Z"),
				}
				if info, ok := st.EventInfo(id); ok && info.Review != nil {
					entry.Review = *info.Review
				}
				entries = append(entries, entry)

				id, ok, err = rk.Next(id)
				if err != nil {
					return fmt.Errorf("read next: %w", err)
				}
			}

			return printLog(format, entries)
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "", "dataset name (required)")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or yaml")
	return cmd
}

func printLog(format string, entries []logEntry) error {
	switch format {
	case "yaml":
		out, err := yaml.Marshal(entries)
		if err != nil {
			return fmt.Errorf("marshal log: %w", err)
		}
		fmt.Print(string(out))
	case "text", "":
		for _, e := range entries {
			review := e.Review
			if review == "" {
				review = "pending"
			}
			fmt.Printf("%s  %-20s  author=%-32s  %s  %s\n", e.Timestamp, e.Kind, e.Author, e.UUID, review)
		}
	default:
		return fmt.Errorf("unknown log format %q (want \"text\" or \"yaml\")", format)
	}
	return nil
}

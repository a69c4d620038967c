package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger"
)

func newReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Resolve a pending object or annotation event",
	}
	cmd.AddCommand(newReviewDecisionCmd("accept"), newReviewDecisionCmd("reject"))
	return cmd
}

func newReviewDecisionCmd(decision string) *cobra.Command {
	var dataset, eventUUID, author string

	cmd := &cobra.Command{
		Use:   decision,
		Short: fmt.Sprintf("%s a pending event", decision),
		RunE: func(_ *cobra.Command, _ []string) error {
			if dataset == "" || eventUUID == "" || author == "" {
				return fmt.Errorf("--dataset, --event, and --author are all required")
			}
			target, err := uuid.Parse(eventUUID)
			if err != nil {
				return fmt.Errorf("--event: %w", err)
			}

			ds, linker, err := openDataset(flags.storeRoot, dataset)
			if err != nil {
				return err
			}

			var event ledger.Event
			if decision == "accept" {
				event = ledger.NewReviewAcceptEvent(target, author)
			} else {
				event = ledger.NewReviewRejectEvent(target, author)
			}
			if err := linker.link(event, author); err != nil {
				return fmt.Errorf("link event: %w", err)
			}
			if err := ds.ProcessEvent(cliContext(), event); err != nil {
				return err
			}

			fmt.Printf("%sed event %s\n", decision, target)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "", "dataset name (required)")
	cmd.Flags().StringVar(&eventUUID, "event", "", "target event UUID (required)")
	cmd.Flags().StringVar(&author, "author", "", "authoring owner's name (required)")
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger"
)

func newOwnerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "owner",
		Short: "Manage a dataset's owner roster",
	}
	cmd.AddCommand(newOwnerAddCmd(), newOwnerRemoveCmd())
	return cmd
}

func newOwnerAddCmd() *cobra.Command {
	var dataset, owner, author string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an owner to the dataset's roster",
		RunE: func(_ *cobra.Command, _ []string) error {
			if dataset == "" || owner == "" {
				return fmt.Errorf("--dataset and --owner are required")
			}
			ds, linker, err := openDataset(flags.storeRoot, dataset)
			if err != nil {
				return err
			}
			event := ledger.NewOwnerAddEvent(owner, author)
			if err := linker.link(event, author); err != nil {
				return fmt.Errorf("link event: %w", err)
			}
			if err := ds.ProcessEvent(cliContext(), event); err != nil {
				return err
			}
			fmt.Printf("added owner %q to dataset %q\n", owner, dataset)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "", "dataset name (required)")
	cmd.Flags().StringVar(&owner, "owner", "", "owner name to add (required)")
	cmd.Flags().StringVar(&author, "author", "", "authoring owner's name (hashchain mode); ignored for signed datasets")
	return cmd
}

func newOwnerRemoveCmd() *cobra.Command {
	var dataset, owner, author string

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove an owner from the dataset's roster",
		RunE: func(_ *cobra.Command, _ []string) error {
			if dataset == "" || owner == "" {
				return fmt.Errorf("--dataset and --owner are required")
			}
			ds, linker, err := openDataset(flags.storeRoot, dataset)
			if err != nil {
				return err
			}
			event := ledger.NewOwnerRemoveEvent(owner, author)
			if err := linker.link(event, author); err != nil {
				return fmt.Errorf("link event: %w", err)
			}
			if err := ds.ProcessEvent(cliContext(), event); err != nil {
				return err
			}
			fmt.Printf("removed owner %q from dataset %q\n", owner, dataset)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "", "dataset name (required)")
	cmd.Flags().StringVar(&owner, "owner", "", "owner name to remove (required)")
	cmd.Flags().StringVar(&author, "author", "", "authoring owner's name (hashchain mode); ignored for signed datasets")
	return cmd
}

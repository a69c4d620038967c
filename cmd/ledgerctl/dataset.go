package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDatasetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Manage dataset directories",
	}
	cmd.AddCommand(newDatasetInitCmd())
	return cmd
}

func newDatasetInitCmd() *cobra.Command {
	var (
		name      string
		integrity string
		owner     string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Bootstrap a new dataset directory and seed its owner roster",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}
			if !cmd.Flags().Changed("integrity") {
				integrity = cfg.Integrity.Mode
			}
			bootstrapOwner, err := initDataset(flags.storeRoot, name, integrity, owner)
			if err != nil {
				return err
			}
			fmt.Printf("initialized dataset %q (integrity=%s) owned by %q\n", name, integrity, bootstrapOwner)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "dataset name (required)")
	cmd.Flags().StringVar(&integrity, "integrity", integrityHashChain, "integrity regime: hashchain or signed (default: config integrity.mode)")
	cmd.Flags().StringVar(&owner, "owner", "", "bootstrap owner name (required for hashchain; defaults to the generated public key for signed)")
	return cmd
}

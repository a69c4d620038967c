package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger"
)

func newAnnotateCmd() *cobra.Command {
	var (
		dataset string
		objects []string
		schema  string
		file    string
		author  string
	)

	cmd := &cobra.Command{
		Use:   "annotate",
		Short: "Attach a schema-conformant annotation to one or more objects",
		RunE: func(_ *cobra.Command, _ []string) error {
			if dataset == "" || len(objects) == 0 || schema == "" || file == "" || author == "" {
				return fmt.Errorf("--dataset, --object (one or more), --schema, --file, and --author are all required")
			}

			schemaID, err := parseIdentifier(schema)
			if err != nil {
				return err
			}
			objectIDs := make([]ledger.Identifier, 0, len(objects))
			for _, o := range objects {
				id, err := parseIdentifier(o)
				if err != nil {
					return err
				}
				objectIDs = append(objectIDs, id)
			}

			payload, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			sum := sha256.Sum256(payload)

			ds, linker, err := openDataset(flags.storeRoot, dataset)
			if err != nil {
				return err
			}

			annotation := ledger.NewAnnotation(schemaID, uint64(len(payload)), ledger.HashTypeSHA256, hex.EncodeToString(sum[:]))
			id := annotation.Identifier()

			d := ds.Depot()
			if err := d.Reserve(id, uint64(len(payload))); err != nil {
				return fmt.Errorf("reserve blob: %w", err)
			}
			if err := d.Write(id, 0, payload); err != nil {
				return fmt.Errorf("write blob: %w", err)
			}
			if err := d.Finalize(id); err != nil {
				return fmt.Errorf("finalize blob: %w", err)
			}

			event := ledger.NewAnnotationCreateEvent(objectIDs, annotation, author)
			if err := linker.link(event, author); err != nil {
				return fmt.Errorf("link event: %w", err)
			}
			if err := ds.ProcessEvent(cliContext(), event); err != nil {
				return err
			}

			fmt.Printf("created annotation %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "", "dataset name (required)")
	cmd.Flags().StringArrayVar(&objects, "object", nil, "object identifier <uuid>.<version> this annotation targets (repeatable)")
	cmd.Flags().StringVar(&schema, "schema", "", "schema object identifier <uuid>.<version> (required)")
	cmd.Flags().StringVar(&file, "file", "", "path to the annotation payload JSON file (required)")
	cmd.Flags().StringVar(&author, "author", "", "authoring owner's name (required)")
	return cmd
}

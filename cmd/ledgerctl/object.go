package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger"
)

func newObjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "object",
		Short: "Manage dataset objects",
	}
	cmd.AddCommand(newObjectPutCmd())
	return cmd
}

func newObjectPutCmd() *cobra.Command {
	var (
		dataset    string
		file       string
		objectName string
		format     string
		author     string
	)

	cmd := &cobra.Command{
		Use:   "put",
		Short: "Reserve, write, finalize, and register a new object from a local file",
		RunE: func(_ *cobra.Command, _ []string) error {
			if dataset == "" || file == "" || objectName == "" || format == "" || author == "" {
				return fmt.Errorf("--dataset, --file, --object-name, --format, and --author are all required")
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

			object := ledger.NewObject(objectName, format, uint64(len(payload)), ledger.HashTypeSHA256, hex.EncodeToString(sum[:]))
			id := object.Identifier()

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

			event := ledger.NewObjectCreateEvent(object, author)
			if err := linker.link(event, author); err != nil {
				return fmt.Errorf("link event: %w", err)
			}
			if err := ds.ProcessEvent(cliContext(), event); err != nil {
				return err
			}

			fmt.Printf("put object %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataset, "dataset", "", "dataset name (required)")
	cmd.Flags().StringVar(&file, "file", "", "path to the payload file (required)")
	cmd.Flags().StringVar(&objectName, "object-name", "", "object name (required; prefix with \"schema-\" for a schema object)")
	cmd.Flags().StringVar(&format, "format", "", "payload MIME type (required)")
	cmd.Flags().StringVar(&author, "author", "", "authoring owner's name (required)")
	return cmd
}

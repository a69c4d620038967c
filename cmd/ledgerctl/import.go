package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kvshepherd-labs/ledgerkeep/internal/ledger"
	"github.com/kvshepherd-labs/ledgerkeep/internal/pkg/logger"
	"github.com/kvshepherd-labs/ledgerkeep/internal/pkg/worker"
)

// eventsFileName is the per-dataset import input: one JSON-encoded event
// per line, in the order they should be appended. Events carry an Author
// but no Integrity; the importer links each one under its dataset's
// configured regime before calling ProcessEvent, exactly as any other
// host would.
const eventsFileName = "events.jsonl"

func newImportCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Bulk-import events.jsonl files across independent dataset directories",
		Long: `import walks <dir>, treating each immediate subdirectory as a dataset
name with an events.jsonl file of newline-delimited JSON events to replay.
Datasets are imported concurrently through a bounded worker pool; events
within one dataset are always replayed in file order under that dataset's
own serialized critical section, never interleaved with another import
into the same dataset.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if dir == "" {
				return fmt.Errorf("--dir is required")
			}
			return runImport(dir)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "directory containing one subdirectory per dataset name (required)")
	return cmd
}

func runImport(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read import directory: %w", err)
	}

	poolSize := cfg.Worker.ImportPoolSize
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pools, err := worker.NewPools(ctx, worker.PoolConfig{ImportPoolSize: poolSize})
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pools.Shutdown()

	var (
		wg        sync.WaitGroup
		succeeded int64
		failed    int64
	)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		eventsPath := filepath.Join(dir, name, eventsFileName)
		if _, err := os.Stat(eventsPath); err != nil {
			continue
		}

		wg.Add(1)
		task := func(taskCtx context.Context) {
			defer wg.Done()
			n, err := importDataset(taskCtx, name, eventsPath)
			if err != nil {
				atomic.AddInt64(&failed, 1)
				logger.Error("dataset import failed",
					zap.String("dataset", name),
					zap.Error(err),
				)
				return
			}
			atomic.AddInt64(&succeeded, int64(n))
			logger.Info("dataset import complete",
				zap.String("dataset", name),
				zap.Int("events", n),
			)
		}

		if err := pools.Import.Submit(ctx, task); err != nil {
			wg.Done()
			return fmt.Errorf("submit import for dataset %q: %w", name, err)
		}
	}

	wg.Wait()
	fmt.Printf("import complete: %d events applied, %d datasets failed\n", succeeded, failed)
	if failed > 0 {
		return fmt.Errorf("%d dataset imports failed, see logs", failed)
	}
	return nil
}

// importDataset replays every event in eventsPath into dataset name,
// sequentially and in file order, returning the count applied.
func importDataset(ctx context.Context, name, eventsPath string) (int, error) {
	ds, linker, err := openDataset(flags.storeRoot, name)
	if err != nil {
		return 0, err
	}

	f, err := os.Open(eventsPath)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", eventsPath, err)
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		event, err := ledger.DecodeEvent(line)
		if err != nil {
			return count, fmt.Errorf("decode event %d: %w", count+1, err)
		}
		author := event.Base().Author
		if err := linker.link(event, author); err != nil {
			return count, fmt.Errorf("link event %d: %w", count+1, err)
		}
		if err := ds.ProcessEvent(ctx, event); err != nil {
			return count, fmt.Errorf("process event %d: %w", count+1, err)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("scan %s: %w", eventsPath, err)
	}
	return count, nil
}

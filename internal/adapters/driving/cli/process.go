package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var processCmd = &cobra.Command{
	Use:   "process <file>...",
	Short: "Process one or more markdown files and store the result",
	Long: `Runs each file through the full pipeline once: processing, chunking
and embedding, then stores the result. Useful for backfills and for
checking how a single note is handled.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	pipeline := buildPipeline(cfg)
	callback := storageCallback(store)

	for _, path := range args {
		result, err := pipeline.ProcessSingleFile(cmd.Context(), path)
		if err != nil {
			return fmt.Errorf("processing %s: %w", path, err)
		}
		if err := callback(result); err != nil {
			return fmt.Errorf("storing %s: %w", path, err)
		}

		cmd.Printf("%s\n", path)
		cmd.Printf("  title:  %s\n", result.Document.Title())
		cmd.Printf("  hash:   %s\n", result.Document.ContentHash)
		cmd.Printf("  chunks: %d\n", len(result.Chunks))
	}

	return nil
}

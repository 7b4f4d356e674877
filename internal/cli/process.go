package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sgd-labs/docintel/internal/config"
	"github.com/spf13/cobra"
)

// ProcessCmd returns the process command
func ProcessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process <document-id>",
		Short: "Run the processing pipeline for one document",
		Args:  cobra.ExactArgs(1),
		RunE:  runProcess,
	}
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	s3Client, err := newStorageClient(ctx, cfg)
	if err != nil {
		return err
	}

	_, processor, err := buildPipeline(cfg, pool, s3Client)
	if err != nil {
		return err
	}

	id := args[0]
	if err := processor.ProcessDocument(ctx, id); err != nil {
		return fmt.Errorf("processing failed for document %s: %w", id, err)
	}

	log.Printf("document %s processed", id)
	return nil
}

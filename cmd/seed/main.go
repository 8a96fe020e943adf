package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"quiz-arena/internal/config"
	"quiz-arena/internal/database"
	"quiz-arena/internal/logger"
	"quiz-arena/internal/repository"
	"quiz-arena/internal/seed"
)

const defaultSeedFile = "configs/seed/catalog.yaml"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		file   string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Load classes, quizzes, exams and content from a YAML file",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := seed.LoadFile(file)
			if err != nil {
				return err
			}
			if err := data.Validate(); err != nil {
				return fmt.Errorf("invalid seed file %s: %w", file, err)
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", file)
				return nil
			}
			return run(cmd.Context(), data)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", defaultSeedFile, "seed YAML file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the file without touching the database")
	return cmd
}

func run(ctx context.Context, data *seed.File) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return err
	}
	defer logger.Sync()
	log := logger.Get()

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Connected to database", zap.String("driver", cfg.DB.Driver))

	seeder := seed.NewSeeder(repository.NewSQLXCatalogWriter(db), repository.NewTransactionManagerAdapter(db))
	if _, err := seeder.Apply(ctx, data); err != nil {
		log.Error("Seeding failed, transaction rolled back", zap.Error(err))
		return err
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"grindccat/internal/config"
	"grindccat/internal/database"
	"grindccat/internal/database/migration"
	"grindccat/internal/logging"
	"grindccat/internal/questionbank"
	"grindccat/internal/repository"
	"grindccat/internal/repository/postgres"
)

func main() {
	cfg := config.Load()
	log := logging.New(os.Stdout, cfg.Location()).With("seed")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(cfg, log, openRepository).ExecuteContext(ctx); err != nil {
		log.Error("seed_failed", err, nil)
		os.Exit(1)
	}
}

// openFunc connects to the question store. It returns a closer for the
// underlying connection.
type openFunc func(ctx context.Context, cfg *config.AppConfig, log *logging.Logger) (repository.QuestionRepository, io.Closer, error)

func openRepository(ctx context.Context, cfg *config.AppConfig, log *logging.Logger) (repository.QuestionRepository, io.Closer, error) {
	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		return nil, nil, err
	}
	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		db.Close()
		return nil, nil, err
	}
	return postgres.NewQuestionPostgres(db), db, nil
}

func newRootCmd(cfg *config.AppConfig, log *logging.Logger, open openFunc) *cobra.Command {
	var (
		file   string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Load a question bank into the database",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			bank := questionbank.Default()
			if file != "" {
				var err error
				if bank, err = questionbank.LoadFile(file); err != nil {
					return err
				}
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "%d questions are valid\n", len(bank.Questions))
				return nil
			}

			repo, closer, err := open(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer closer.Close()

			st, err := questionbank.Import(cmd.Context(), repo, bank, log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "inserted %d, updated %d\n", st.Inserted, st.Updated)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML question bank (default: the built-in bank)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate the bank without touching the database")
	return cmd
}

package cli

import (
	"log"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"live-quiz-service/internal/config"
	"live-quiz-service/internal/infra/file"
	"live-quiz-service/internal/infra/postgres"
	infraredis "live-quiz-service/internal/infra/redis"
)

// NewImportCmd loads a JSON question catalog into Postgres, replacing the stored one,
// and drops the cached Postgres catalog when Redis is configured.
func NewImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import-questions <questions.json>",
		Short: "Replace the Postgres question catalog with a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			questions, err := file.NewCatalogLoader(args[0]).LoadCatalog(ctx)
			if err != nil {
				return err
			}

			db, err := openBunDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := migrateDB(ctx, db); err != nil {
				return err
			}
			if err := postgres.ImportCatalog(ctx, db, questions); err != nil {
				return err
			}
			log.Printf("imported %d questions from %s", len(questions), args[0])

			if cfg.Redis.Addr == "" {
				return nil
			}
			client := redis.NewClient(&redis.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			defer client.Close()
			return infraredis.InvalidateCatalog(ctx, client, config.CatalogPostgres)
		},
	}
}

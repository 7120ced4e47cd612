package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/cfbdemic/allies/internal/config"
	"github.com/cfbdemic/allies/internal/database"
)

// NewTestCmd creates the test command
func NewTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test configured dependencies",
		Long:  "Validate the environment configuration and check that Postgres, Redis, and Reddit are reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			fmt.Println("✓ Configuration is valid")

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer func() {
				if err := db.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
				}
			}()
			fmt.Println("✓ Database is reachable")

			redisOpts, err := goredis.ParseURL(cfg.RedisURL)
			if err != nil {
				return fmt.Errorf("invalid REDIS_URL: %w", err)
			}
			redisClient := goredis.NewClient(redisOpts)
			defer redisClient.Close()
			if err := redisClient.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("failed to reach redis: %w", err)
			}
			fmt.Println("✓ Redis is reachable")

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://www.reddit.com/api/v1/authorize", nil)
			if err != nil {
				return err
			}
			client := &http.Client{Timeout: 10 * time.Second}
			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("failed to reach reddit: %w", err)
			}
			resp.Body.Close()
			fmt.Println("✓ Reddit authorization endpoint is reachable")

			return nil
		},
	}

	return cmd
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/chrisdamba/mealplanner/internal/lock"
	"github.com/chrisdamba/mealplanner/internal/logger"
	"github.com/chrisdamba/mealplanner/internal/models"
	"github.com/chrisdamba/mealplanner/internal/repositories/postgres"
	"github.com/chrisdamba/mealplanner/internal/runner"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "mealplanner",
	Short: "Generates rotating multi-week meal plans and shopping lists",
	Long: `mealplanner builds week-by-week meal plans from each user's favourite recipes,
honouring dietary restrictions, prep-time limits and skill level, and rotating main
courses so none repeats until every eligible favourite has been cooked. Each week
comes with an aggregated shopping list grouped by store section.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := models.LoadConfig(viper.GetViper(), configPath())
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}

		log, err := logger.New(logger.Config{
			Level:       cfg.LogLevel,
			Format:      cfg.LogFormat,
			Development: cfg.LogDevelopment,
		})
		if err != nil {
			return fmt.Errorf("error creating logger: %w", err)
		}
		defer func() { _ = log.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return run(ctx, cfg, log)
	},
}

func run(ctx context.Context, cfg *models.Config, log *zap.Logger) error {
	var deps runner.Dependencies

	if cfg.DatabaseURL != "" {
		if err := postgres.Migrate(cfg.DatabaseURL, log); err != nil {
			return err
		}
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		deps.Recipes = postgres.NewRecipeRepository(pool)
		deps.Users = postgres.NewUserRepository(pool)
		deps.Rotations = postgres.NewRotationStateRepository(pool)
		deps.Plans = postgres.NewMealPlanRepository(pool)
		log.Info("using postgres storage")
	} else {
		log.Info("using in-memory storage")
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		deps.Locker = lock.NewRedisLocker(client, cfg.LockTTL, log)
	}

	r, err := runner.NewRunner(ctx, cfg, log, deps)
	if err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", r.Metrics().Handler())
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server stopped", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		log.Info("serving metrics", zap.String("addr", cfg.MetricsAddr))
	}

	return r.Run(ctx)
}

// configPath falls back to $HOME/.mealplanner.yaml when --config is not given
// and that file exists.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, ".mealplanner.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.mealplanner.yaml)")

	flags := rootCmd.Flags()
	flags.Int("seed", 42, "Random seed for plan generation and synthetic data")
	flags.Int("weeks", 1, "Number of consecutive weeks to plan")
	flags.Int("users", 10, "Synthetic users to create when the store is empty")
	flags.Int("favorites-per-user", 40, "Favourite recipes per synthetic user")
	flags.String("start-date", time.Now().Format(time.RFC3339), "Plans start on the Monday after this date")
	flags.Int("min-main-courses", 0, "Fail a user's plan when fewer main courses survive dietary filtering")
	flags.String("output-format", "console", "Output format: console, json, csv or parquet")
	flags.String("output-path", "", "Base directory for file output")
	flags.String("output-destination", "local", "Where parquet files go: local or s3")
	flags.Bool("kafka-enabled", false, "Publish rows to Kafka")
	flags.String("kafka-broker-list", "localhost:9092", "Kafka broker list")
	flags.String("kafka-topic-prefix", "mealplanner", "Prefix for Kafka topic names")
	flags.String("database-url", "", "Postgres connection url (in-memory storage when empty)")
	flags.String("redis-addr", "", "Redis address for per-user generation locks")
	flags.Duration("lock-ttl", 30*time.Second, "Expiry of a per-user generation lock")
	flags.String("metrics-addr", "", "Serve prometheus metrics on this address")
	flags.String("log-level", "info", "Log level")
	flags.String("log-format", "json", "Log format: json or console")

	flags.VisitAll(func(f *pflag.Flag) {
		cobra.CheckErr(viper.BindPFlag(flagKey(f.Name), f))
	})
}

// flagKey maps a flag name onto its config key, e.g. start-date -> start_date.
func flagKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

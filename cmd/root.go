package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/skillforge/internal/api"
	"github.com/abhisek/skillforge/internal/app"
	"github.com/abhisek/skillforge/internal/assist"
	"github.com/abhisek/skillforge/internal/config"
	"github.com/abhisek/skillforge/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "skillforge",
	Short: "Author question templates for the exercise platform",
	Long:  "Skillforge — terminal client for authoring parameterized question/answer templates, with live suggestions, sandbox preview, and one-keystroke save.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		opts := app.Options{
			Client: api.New(api.Config{
				BaseURL: cfg.API.BaseURL,
				Timeout: api.DefaultConfig().Timeout,
			}),
			Store: st,
		}

		// The drafting helper is optional; everything else works without it.
		if cfg.Assist.APIKey != "" {
			helper, err := assist.New(assist.Config{
				APIKey:  cfg.Assist.APIKey,
				Model:   cfg.Assist.Model,
				BaseURL: cfg.Assist.BaseURL,
			})
			if err != nil {
				fmt.Fprintln(os.Stderr, "Assist not configured:", err)
			} else {
				opts.Helper = helper
			}
		}

		return app.Run(opts)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides SKILLFORGE_CONFIG)")
	rootCmd.PersistentFlags().String("api-url", "", "Backend base URL including /api (overrides config)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SKILLFORGE_DB)")

	rootCmd.AddCommand(skillsCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(assistCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig folds .env into the environment, reads the config file, and
// applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	_ = godotenv.Load()

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if v, _ := cmd.Flags().GetString("api-url"); v != "" {
		cfg.API.BaseURL = v
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then SKILLFORGE_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

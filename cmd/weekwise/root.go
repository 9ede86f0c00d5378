package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/weekwise/weekwise/storage"
	"github.com/weekwise/weekwise/store"
)

// CLI wires the cobra command tree, viper configuration, and the store.
type CLI struct {
	rootCmd   *cobra.Command
	viperInst *viper.Viper
	logger    *slog.Logger

	st      *store.Store
	cleanup func()
}

// NewCLI builds the command tree. Configuration precedence: flags, then
// WEEKWISE_* environment variables, then a config file, then defaults.
func NewCLI() *CLI {
	cli := &CLI{viperInst: viper.New()}
	cli.setupViperConfig()
	cli.createRootCommand()
	cli.addCommands()
	return cli
}

func (cli *CLI) setupViperConfig() {
	if configFile := os.Getenv("WEEKWISE_CONFIG"); configFile != "" {
		cli.viperInst.SetConfigFile(configFile)
	} else {
		cli.viperInst.SetConfigName("weekwise")
		cli.viperInst.SetConfigType("yaml")
		cli.viperInst.AddConfigPath(".")
		cli.viperInst.AddConfigPath("$HOME/.weekwise")
		cli.viperInst.AddConfigPath("/etc/weekwise")
	}

	cli.viperInst.AutomaticEnv()
	cli.viperInst.SetEnvPrefix("WEEKWISE")
	cli.viperInst.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	cli.viperInst.SetDefault("data", defaultDataPath())
	cli.viperInst.SetDefault("log-level", "warn")

	// Missing config files are fine; defaults apply.
	_ = cli.viperInst.ReadInConfig()
}

func defaultDataPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "weekwise.json"
	}
	return filepath.Join(homeDir, ".weekwise", "weekwise.json")
}

func (cli *CLI) createRootCommand() {
	cli.rootCmd = &cobra.Command{
		Use:   "weekwise",
		Short: "Weekwise - task planner with weekly goal tracking",
		Long: `Weekwise manages a task collection with priority tags, regex search,
weekly-goal statistics, and a picture-naming quiz.

Configuration Sources (in order of precedence):
1. Command line flags
2. Environment variables (WEEKWISE_*)
3. Configuration file (WEEKWISE_CONFIG, ./weekwise.yaml, ~/.weekwise/, /etc/weekwise/)
4. Built-in defaults

The data file format follows its extension: .db or .sqlite selects the
SQLite backend, anything else the JSON file backend.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.viperInst.BindPFlags(cli.rootCmd.PersistentFlags()); err != nil {
				return err
			}
			if err := cli.viperInst.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			logger, err := initLogging(cli.viperInst.GetString("log-level"), cli.viperInst.GetBool("verbose"))
			if err != nil {
				return err
			}
			cli.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cli.cleanup != nil {
				cli.cleanup()
			}
		},
	}

	flags := cli.rootCmd.PersistentFlags()
	flags.String("data", defaultDataPath(), "path to the data file (.json, .db, or .sqlite)")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")
	flags.Bool("verbose", false, "also log to stderr")
}

// openStore creates the store over the adapter implied by the data path.
func (cli *CLI) openStore() (*store.Store, error) {
	if cli.st != nil {
		return cli.st, nil
	}

	dataPath := cli.viperInst.GetString("data")
	if dir := filepath.Dir(dataPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	var adapter storage.Adapter
	switch strings.ToLower(filepath.Ext(dataPath)) {
	case ".db", ".sqlite":
		sqlite, err := storage.OpenSQLite(dataPath, cli.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		adapter = sqlite
		cli.cleanup = func() { _ = sqlite.Close() }
	default:
		adapter = storage.NewJSONAdapter(dataPath, cli.logger)
	}

	cli.st = store.New(adapter, store.WithLogger(cli.logger))
	return cli.st, nil
}

// Execute runs the CLI.
func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

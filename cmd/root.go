package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/hostpad/internal/config"
	"github.com/zjrosen/hostpad/internal/flags"
	"github.com/zjrosen/hostpad/internal/log"
	"github.com/zjrosen/hostpad/internal/tracing"
)

func init() {
	// Query the terminal background before any Bubble Tea program starts so
	// the OSC 11 reply cannot race the program's input loop.
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	logFile   string
	logLevel  string
	cfg       config.Config
	features  *flags.Registry

	// cleanups run after the command finishes, last registered first.
	cleanups []func()
)

var rootCmd = &cobra.Command{
	Use:   "hostpad",
	Short: "An Emacs-style terminal text box and host catalog",
	Long: `hostpad edits text in a fixed-size terminal box with Emacs-style keys
and keeps a small SQLite catalog of network hosts (MAC, IP, hostname) that
can be reviewed and renamed through the same box.

Run without a subcommand to try the box.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runEdit,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .hostpad/config.yaml, then ~/.config/hostpad/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"write debug logs (also enabled by HOSTPAD_DEBUG)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "debug.log",
		"debug log path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "debug",
		"minimum debug log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("db", "",
		"host catalog database (default: hosts.db)")

	_ = viper.BindPFlag("catalog.path", rootCmd.PersistentFlags().Lookup("db"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("textbox.rows", defaults.Textbox.Rows)
	viper.SetDefault("textbox.cols", defaults.Textbox.Cols)
	viper.SetDefault("textbox.insert_mode", defaults.Textbox.InsertMode)
	viper.SetDefault("textbox.strip_spaces", defaults.Textbox.StripSpaces)
	viper.SetDefault("catalog.path", defaults.Catalog.Path)
	viper.SetDefault("catalog.cache_ttl", defaults.Catalog.CacheTTL)
	viper.SetDefault("ui.markdown_style", defaults.UI.MarkdownStyle)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	home, _ := os.UserHomeDir()
	userConfig := filepath.Join(home, ".config", "hostpad", "config.yaml")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .hostpad/config.yaml (current directory)
		// 2. ~/.config/hostpad/config.yaml (user config)
		if _, err := os.Stat(".hostpad/config.yaml"); err == nil {
			viper.SetConfigFile(".hostpad/config.yaml")
		} else {
			viper.AddConfigPath(filepath.Dir(userConfig))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && home != "" {
			// First run: leave a commented config behind. Failure to write
			// it is not fatal; defaults apply.
			if writeErr := config.WriteDefaultConfig(userConfig); writeErr == nil {
				viper.SetConfigFile(userConfig)
				_ = viper.ReadInConfig()
			}
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// setup starts logging and tracing and validates the loaded config.
func setup(_ *cobra.Command, _ []string) error {
	if os.Getenv("HOSTPAD_DEBUG") != "" || debugFlag {
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		cleanup, err := log.InitWithTeaLog(logFile, "hostpad")
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		cleanups = append(cleanups, cleanup)
		log.SetMinLevel(level)
		log.Info(log.CatConfig, "hostpad starting", "version", version, "config", viper.ConfigFileUsed())
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	features = flags.New(cfg.Flags)
	for _, name := range features.Unknown() {
		log.Warn(log.CatConfig, "unknown feature flag", "flag", name, "known", strings.Join(flags.Known(), ", "))
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	cleanups = append(cleanups, func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			log.ErrorErr(log.CatTrace, "tracing shutdown", err)
		}
	})
	return nil
}

func runCleanups() {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	cleanups = nil
}

// Execute runs the root command
func Execute() error {
	defer runCleanups()
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

package cmd

import (
	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/fulmenhq/gofulmen/telemetry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sendlens/sendlens/internal/config"
	"github.com/sendlens/sendlens/internal/observability"
)

var (
	cfgFile string
	verbose bool

	// Version info set by main package
	versionInfo struct {
		Version   string
		Commit    string
		BuildDate string
	}
)

// SetVersionInfo is called by main package to set version information
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sendlens",
	Short: "MCP gateway for the Instantly campaign platform",
	Long: `sendlens bridges MCP clients to the Instantly email campaign API.

It tracks the platform's rate-limit headers, walks paginated account
listings exhaustively, validates sender eligibility, and assembles
campaign payloads deterministically.

Use the subcommands to perform specific operations.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Disable global telemetry early so config loading cannot emit
	// metrics to stdout. Serve mode initializes proper telemetry later.
	disabledConfig := &telemetry.Config{Enabled: false}
	if sys, err := telemetry.NewSystem(disabledConfig); err == nil {
		telemetry.SetGlobalSystem(sys)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/sendlens/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (sets log level to debug)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig loads configuration before any command runs.
func initConfig() {
	observability.InitCLILogger("sendlens", verbose)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		ExitWithCode(observability.CLILogger, foundry.ExitConfigInvalid, "Failed to load configuration", err)
	}

	if verbose && viper.ConfigFileUsed() != "" {
		observability.CLILogger.Debug("Using config file",
			zap.String("path", viper.ConfigFileUsed()))
	}

	loadedConfig = cfg
}

// loadedConfig is populated by initConfig and shared by subcommands.
var loadedConfig *config.Config

// currentConfig returns the loaded configuration, falling back to the
// cached loader state for tests that bypass cobra initialization.
func currentConfig() *config.Config {
	if loadedConfig != nil {
		return loadedConfig
	}
	return config.Get()
}

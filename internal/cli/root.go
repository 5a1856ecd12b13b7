package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/charliek/logdash/internal/config"
	"github.com/charliek/logdash/internal/constants"
	"github.com/charliek/logdash/internal/runstate"
)

// Version is set during build
var Version = "dev"

// Global flags
var (
	configPath string
	demoMode   bool
	apiAddr    string
)

// rootCmd runs the dashboard
var rootCmd = &cobra.Command{
	Use:   "logdash",
	Short: "A real-time terminal log dashboard",
	Long: `logdash subscribes to a message bus and shows a live, filterable window
of structured log records next to per-second statistics. It supports:
  - Redis pub/sub or an in-process bus
  - Regex filtering of incoming records
  - Copying the selected message to the clipboard
  - An optional read-only HTTP API with a live SSE stream`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runDashboardCmd,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "logdash version %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", constants.DefaultConfigFile, "Config file")
	rootCmd.Flags().BoolVar(&demoMode, "demo", false, "Run against an in-process bus fed by the demo generator")

	rootCmd.SetVersionTemplate("logdash version {{.Version}}\n")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(statusCmd)
}

// configFile returns the config path named by --config, or the first config
// file found in the working directory
func configFile(cmd *cobra.Command) (path string, explicit bool) {
	if cmd.Flags().Changed("config") {
		return configPath, true
	}
	return config.FindConfigFile(), false
}

// loadConfig loads the config file named by --config. Without the flag the
// working directory is searched and a missing file means defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.LoadOrDefault(configFile(cmd))
}

// apiAddress returns the base URL of a running dashboard's API.
// Priority:
// 1. --addr
// 2. State file (.logdash/logdash.state) written by a running dashboard
// 3. Config file
// 4. Default address
func apiAddress(cmd *cobra.Command) string {
	if cmd.Flags().Changed("addr") {
		return apiAddr
	}
	if cwd, err := os.Getwd(); err == nil {
		if state, err := runstate.Load(cwd); err == nil {
			return state.URL()
		}
	}
	if cfg, err := loadConfig(cmd); err == nil {
		return "http://" + cfg.API.Addr()
	}
	return fmt.Sprintf("http://%s:%d", constants.DefaultAPIHost, constants.DefaultAPIPort)
}

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/campus-nav/internal/campus"
	"github.com/xkilldash9x/campus-nav/internal/config"
	"github.com/xkilldash9x/campus-nav/internal/navigation"
	"github.com/xkilldash9x/campus-nav/internal/observability"
	"github.com/xkilldash9x/campus-nav/internal/routing"
)

var (
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "campus-nav",
	Short:   "Campus navigation: routes, rooms, step-by-step directions, tags and labels.",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeConfig(); err != nil {
			return err
		}

		var cfg config.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "campus-nav"})
			return fmt.Errorf("failed to unmarshal config: %w", err)
		}

		observability.InitializeLogger(cfg.Logger)
		observability.GetLogger().Debug("Starting campus-nav", zap.String("version", Version))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		observability.GetLogger().Error("Command execution failed", zap.Error(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(
		newServeCmd(),
		newRouteCmd(),
		newNavigateCmd(),
		newSearchCmd(),
		newRoomsCmd(),
		newTagsCmd(),
		newLabelsCmd(),
		newMapCmd(),
		newGenerateCmd(),
	)
}

// initializeConfig reads in config file and ENV variables if set.
func initializeConfig() error {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("CAMPUSNAV")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults and env vars.
	}
	return nil
}

// loadConfig unmarshals and validates the merged configuration.
func loadConfig() (*config.Config, error) {
	return config.NewConfigFromViper(viper.GetViper())
}

// navServices bundles the read-only campus services the offline commands use.
type navServices struct {
	graph      *campus.Graph
	directory  *campus.Directory
	calculator *routing.Calculator
	navigator  *navigation.Navigator
}

// buildNavServices loads the dataset (built-in or configured) and constructs
// the graph, directory, calculator and navigator.
func buildNavServices(cfg *config.Config, logger *zap.Logger) (*navServices, error) {
	data := campus.DefaultGraphData()
	if cfg.Campus.DataFile != "" {
		loaded, err := campus.LoadGraphData(cfg.Campus.DataFile)
		if err != nil {
			return nil, err
		}
		data = loaded
	}

	graph := campus.NewGraph(data, logger)
	// The dataset file carries nodes and edges only, so room enumeration
	// always uses the built-in block specs.
	directory := campus.NewDefaultDirectory(logger)
	return &navServices{
		graph:      graph,
		directory:  directory,
		calculator: routing.NewCalculator(graph, logger),
		navigator:  navigation.NewNavigator(graph, directory, logger),
	}, nil
}

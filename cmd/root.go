package cmd

import (
	"github.com/lazharichir/holdem/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCmd builds the holdem command tree. Each call gets its own viper
// instance so commands can be built more than once.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var envFile string

	rootCmd := &cobra.Command{
		Use:           "holdem",
		Short:         "Texas Hold'em table server and simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return config.LoadDotEnv(envFile)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (yaml, toml or json)")
	flags.StringVar(&envFile, "env-file", ".env", "file of KEY=value pairs loaded into the environment")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text or json)")
	_ = v.BindPFlag("config", flags.Lookup("config"))
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindPFlag("log.format", flags.Lookup("log-format"))

	rootCmd.AddCommand(
		newServeCmd(v),
		newSimCmd(v),
	)
	return rootCmd
}

// Execute runs the root command against os.Args
func Execute() error {
	return NewRootCmd().Execute()
}

// setup loads the configuration and the logger every subcommand needs
func setup(v *viper.Viper) (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, nil, err
	}
	log, err := config.NewLogger(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

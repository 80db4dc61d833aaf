package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// This binary reads a scenario, propagates it and exports the frames.

var (
	scenario string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "retrograde",
	Short: "Simulate and animate the retrograde motion of Mars as seen from Earth",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if scenario == "" {
			return nil
		}
		viper.SetConfigFile(scenario)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("%s: %w", scenario, err)
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&scenario, "scenario", "", "scenario file (TOML, YAML or JSON)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "really verbose (esp. for configuration)")
	viper.SetEnvPrefix("RETROGRADE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	rootCmd.AddCommand(simulateCmd, ephemerisCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

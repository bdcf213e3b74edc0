package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "feactl",
	Short: "feactl is a command line tool for the FEA job orchestration service",
	Long: `feactl is the command-line interface for the FEA job orchestration service.

The service tracks finite element simulation jobs from submission through
execution to artifact retrieval:

  - Controller: Stateless HTTP API over the Postgres job table
  - Worker: Polls for pending jobs, drives the compute engine, uploads artifacts

Common workflows:

  Submit a simulation:
    feactl submit --name "beam-study-01" --input ./cantilever.json

  Check a job:
    feactl status <job-id>

  Browse recent jobs:
    feactl list --status COMPLETED --limit 20

  Fetch signed artifact URLs:
    feactl artifacts <job-id> --ttl 7200

Configuration:
  Set the API endpoint via a flag, environment variable, or config file:
    FEA_API_URL    API endpoint (default: http://localhost:8000)`,
}

func Execute() error {
	return rootCmd.Execute()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".feactl"
		viper.AddConfigPath(home)
		viper.SetConfigName(".feactl")
		viper.SetConfigType("yaml")
	}

	// Read environment variables that match "FEA_VARNAME"
	viper.SetEnvPrefix("FEA")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.feactl.yaml)")

	rootCmd.PersistentFlags().String("api-url", "http://localhost:8000", "FEA controller URL")
	viper.BindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api-url"))
}

package cmd

import (
	"encoding/json"
	"os"

	"github.com/Saasvidu/agentic-engineering-workflow-automation/pkg/api"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	submitName  string
	submitInput string
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a new simulation job",
	Long: `Submit a new FEA simulation job from a JSON configuration file.

The configuration document must contain the full simulation input
(MODEL_NAME, TEST_TYPE, GEOMETRY, MATERIAL, LOADING, DISCRETIZATION).
The job is created in INITIALIZED state and picked up by the next free
worker.`,
	Run: func(cmd *cobra.Command, args []string) {
		raw, err := os.ReadFile(submitInput)
		if err != nil {
			cmd.Printf("Failed to read input file: %v\n", err)
			return
		}
		if !json.Valid(raw) {
			cmd.Printf("Input file %s is not valid JSON\n", submitInput)
			return
		}

		client := NewJobClient(viper.GetString("api_url"))
		resp, err := client.CreateJob(api.CreateJobRequest{
			JobName: submitName,
			Input:   json.RawMessage(raw),
		})
		if err != nil {
			cmd.Printf("Failed to submit job: %v\n", err)
			return
		}

		cmd.Printf("%s✓%s Job submitted\n", colorGreen, colorReset)
		cmd.Printf("%sJob ID:%s  %s\n", colorDim, colorReset, resp.JobID)
		cmd.Printf("%sStatus:%s  %s\n", colorDim, colorReset, colorizeStatus(resp.Status))
	},
}

func init() {
	rootCmd.AddCommand(submitCmd)

	submitCmd.Flags().StringVar(&submitName, "name", "", "Human-readable job name")
	submitCmd.Flags().StringVar(&submitInput, "input", "", "Path to the simulation input JSON file")
	submitCmd.MarkFlagRequired("name")
	submitCmd.MarkFlagRequired("input")
}

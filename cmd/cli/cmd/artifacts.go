package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var artifactsTTL int

var artifactsCmd = &cobra.Command{
	Use:   "artifacts [job_id]",
	Short: "Get signed artifact URLs for a job",
	Long: `Fetch time-limited signed download URLs for a job's stored outputs:
the summary document, the preview image, and the exported meshes.

URLs are generated without checking blob existence; a job that failed
early may yield links that return 404.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := NewJobClient(viper.GetString("api_url"))

		resp, err := client.ArtifactURLs(args[0], artifactsTTL)
		if err != nil {
			cmd.Printf("Failed to fetch artifact URLs: %v\n", err)
			return
		}

		cmd.Printf("%sArtifacts for job %s%s (expire in %ds)\n", colorBold, resp.JobID, colorReset, resp.ExpiresInSeconds)
		cmd.Println("──────────────────────────────")
		for name, url := range resp.URLs {
			cmd.Printf("%s%-14s%s %s\n", colorDim, name+":", colorReset, url)
		}
	},
}

func init() {
	rootCmd.AddCommand(artifactsCmd)

	artifactsCmd.Flags().IntVar(&artifactsTTL, "ttl", 0, "URL lifetime in seconds (default: server default)")
}

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	listStatus string
	listCursor string
	listLimit  int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List simulation jobs",
	Long: `List jobs newest first, optionally filtered by status.

Pages are linked by an opaque cursor. When the output ends with a cursor
line, pass it back with --cursor to fetch the next page.`,
	Run: func(cmd *cobra.Command, args []string) {
		client := NewJobClient(viper.GetString("api_url"))

		page, err := client.ListJobs(listStatus, listCursor, listLimit)
		if err != nil {
			cmd.Printf("Failed to list jobs: %v\n", err)
			return
		}

		if len(page.Jobs) == 0 {
			cmd.Println("No jobs found")
			return
		}

		for _, job := range page.Jobs {
			cmd.Printf("%s  %-38s %-24s %s\n",
				statusIcon(job.Status), job.JobID, colorizeStatus(job.Status), job.JobName)
		}

		if page.HasMore {
			cmd.Println()
			cmd.Printf("%sMore results. Next page:%s --cursor %s\n", colorDim, colorReset, page.NextCursor)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status (e.g. RUNNING, COMPLETED)")
	listCmd.Flags().StringVar(&listCursor, "cursor", "", "Pagination cursor from a previous page")
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "Page size (1-100)")
}

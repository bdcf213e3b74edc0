package cmd

import (
	"fmt"
	"time"

	"github.com/Saasvidu/agentic-engineering-workflow-automation/pkg/api"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var statusShowLogs bool

var statusCmd = &cobra.Command{
	Use:   "status [job_id]",
	Short: "Get status of a simulation job",
	Long:  `Retrieve the current state of a job (INITIALIZED, RUNNING, COMPLETED, FAILED), its timestamps, and optionally its execution log.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		client := NewJobClient(viper.GetString("api_url"))

		job, err := client.GetJob(args[0])
		if err != nil {
			cmd.Printf("Failed to fetch job: %v\n", err)
			return
		}

		printStatus(cmd, job)
	},
}

func printStatus(cmd *cobra.Command, job *api.JobResponse) {
	icon := statusIcon(job.Status)
	cmd.Printf("%s %sJob Details%s\n", icon, colorBold, colorReset)
	cmd.Println("──────────────────────────────")

	cmd.Printf("%sID:%s           %s\n", colorDim, colorReset, job.JobID)
	cmd.Printf("%sName:%s         %s\n", colorDim, colorReset, job.JobName)
	cmd.Printf("%sStatus:%s       %s\n", colorDim, colorReset, colorizeStatus(job.Status))
	cmd.Printf("%sCreated:%s      %s\n", colorDim, colorReset, formatTimeWithRelative(job.CreatedAt))
	cmd.Printf("%sLast update:%s  %s\n", colorDim, colorReset, formatTimeWithRelative(job.LastUpdated))

	if statusShowLogs && len(job.Logs) > 0 {
		cmd.Println()
		cmd.Printf("%sExecution log:%s\n", colorBold, colorReset)
		for _, line := range job.Logs {
			cmd.Println("  " + line)
		}
	}
}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

func statusIcon(status string) string {
	switch status {
	case "COMPLETED":
		return colorGreen + "✓" + colorReset
	case "FAILED":
		return colorRed + "✗" + colorReset
	case "RUNNING":
		return colorYellow + "⏳" + colorReset
	case "INITIALIZED":
		return colorCyan + "◯" + colorReset
	default:
		return "•"
	}
}

func colorizeStatus(status string) string {
	icon := statusIcon(status)
	switch status {
	case "COMPLETED":
		return icon + " " + colorGreen + status + colorReset
	case "FAILED":
		return icon + " " + colorRed + status + colorReset
	case "RUNNING":
		return icon + " " + colorYellow + status + colorReset
	case "INITIALIZED":
		return icon + " " + colorCyan + status + colorReset
	default:
		return status
	}
}

func formatTimeWithRelative(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	relative := relativeTime(t)
	return fmt.Sprintf("%s %s(%s ago)%s", t.Format("Mon, 02 Jan 2006 15:04:05 MST"), colorDim, relative, colorReset)
}

func relativeTime(t time.Time) string {
	duration := time.Since(t)

	if duration < time.Minute {
		return fmt.Sprintf("%ds", int(duration.Seconds()))
	} else if duration < time.Hour {
		return fmt.Sprintf("%dm", int(duration.Minutes()))
	} else if duration < 24*time.Hour {
		return fmt.Sprintf("%dh", int(duration.Hours()))
	} else {
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVar(&statusShowLogs, "logs", false, "Print the job's execution log")
}

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/charliek/logdash/internal/constants"
)

var (
	logLines   int
	logPattern string
	logFollow  bool
	jsonOutput bool
)

// logsCmd prints the window of a running dashboard
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show records from a running dashboard's API",
	Args:  cobra.NoArgs,
	RunE:  runLogs,
}

// statsCmd prints the latest statistics window
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the latest statistics window from a running dashboard's API",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

// statusCmd prints dashboard counters
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of a running dashboard's API",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	for _, cmd := range []*cobra.Command{logsCmd, statsCmd, statusCmd} {
		cmd.Flags().StringVar(&apiAddr, "addr", "", "API address (default from config)")
		cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print raw JSON")
	}
	logsCmd.Flags().IntVarP(&logLines, "lines", "n", constants.DefaultLogLimit, "Number of records to show")
	logsCmd.Flags().StringVarP(&logPattern, "pattern", "p", "", "Regex matched against \"LEVEL service message\"")
	logsCmd.Flags().BoolVarP(&logFollow, "follow", "f", false, "Stream newly admitted records")
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runLogs(cmd *cobra.Command, args []string) error {
	client := NewClient(apiAddress(cmd))
	params := LogParams{Lines: logLines, Pattern: logPattern}
	printer := NewLogPrinter(cmd.OutOrStdout())

	if logFollow {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return client.StreamLogs(ctx, params, printer.Print)
	}

	resp, err := client.GetLogs(cmd.Context(), params)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd, resp)
	}

	// the API returns newest first; print oldest first like a tail
	for i := len(resp.Logs) - 1; i >= 0; i-- {
		printer.Print(resp.Logs[i])
	}
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	resp, err := NewClient(apiAddress(cmd)).GetStats(cmd.Context())
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd, resp)
	}

	top := "N/A"
	if resp.TopService != nil {
		top = *resp.TopService
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Window:\t%s - %s\n", resp.WindowStart, resp.WindowEnd)
	fmt.Fprintf(w, "Total Logs:\t%d\n", resp.TotalCount)
	fmt.Fprintf(w, "Error Count:\t%d\n", resp.ErrorCount)
	fmt.Fprintf(w, "Top Service:\t%s\n", top)
	return w.Flush()
}

func runStatus(cmd *cobra.Command, args []string) error {
	resp, err := NewClient(apiAddress(cmd)).GetStatus(cmd.Context())
	if err != nil {
		return fmt.Errorf("%w\nIs a dashboard running with api.enabled?", err)
	}
	if jsonOutput {
		return printJSON(cmd, resp)
	}

	filter := resp.Filter
	switch {
	case filter == "":
		filter = "(none)"
	case !resp.FilterValid:
		filter += " (invalid, showing all)"
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Mode:\t%s\n", resp.Mode)
	fmt.Fprintf(w, "Filter:\t%s\n", filter)
	fmt.Fprintf(w, "Buffered:\t%d/%d\n", resp.Buffered, resp.Capacity)
	fmt.Fprintf(w, "Admitted:\t%d\n", resp.Admitted)
	fmt.Fprintf(w, "Filtered Out:\t%d\n", resp.FilteredOut)
	fmt.Fprintf(w, "Stats:\t%t\n", resp.HasStats)
	fmt.Fprintf(w, "Subscribers:\t%d\n", resp.Subscribers)
	return w.Flush()
}

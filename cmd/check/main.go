package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/ServerWatch/conn-monitor/internal/gamelog"
	"github.com/ServerWatch/conn-monitor/internal/logsource"
	"github.com/ServerWatch/conn-monitor/internal/monitor"
	"github.com/ServerWatch/conn-monitor/internal/observability"
)

// check polls a log file once and prints the classified result.
// Useful for verifying patterns against a real log without running the
// monitor daemon.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: check <log_file> [budget]")
		fmt.Println("Example: check \"C:\\Game\\Saved\\Logs\\client.log\" 5000")
		os.Exit(1)
	}

	observability.InitLogger("warn")

	logPath := os.Args[1]
	budget := monitor.DefaultReadBudget
	if len(os.Args) > 2 {
		n, err := strconv.Atoi(os.Args[2])
		if err != nil || n < 1 {
			fmt.Fprintf(os.Stderr, "Invalid budget: %s\n", os.Args[2])
			os.Exit(1)
		}
		budget = n
	}

	mon := monitor.New(logsource.NewReader(), gamelog.NewExtractor(), monitor.Config{
		ReadBudget: budget,
	})

	result := mon.Poll(logPath)

	fmt.Printf("Status:  %s (%s)\n", result.Status, result.Status.Message())
	if result.Found() {
		out, _ := json.MarshalIndent(result.Record, "", "  ")
		fmt.Println(string(out))
	}
	if result.Reason != "" {
		fmt.Printf("Reason:  %s\n", result.Reason)
	}

	if !result.Found() {
		os.Exit(2)
	}
}

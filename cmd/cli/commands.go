package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var sportName string

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)

	playersCmd.AddCommand(playersListCmd, playersAddCmd, playersRemoveCmd)
	rootCmd.AddCommand(playersCmd)

	statsCmd.PersistentFlags().StringVar(&sportName, "sport", "badminton", "The sport to address")
	statsCmd.AddCommand(statsSummaryCmd, statsAddCmd, statsGetCmd, statsDeleteCmd)
	rootCmd.AddCommand(statsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "Manage the known players",
}

var playersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the known players",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/players", nil)
	},
}

var playersAddCmd = &cobra.Command{
	Use:   "add <id> <name>",
	Short: "Register a player",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid player id %q: %w", args[0], err)
		}
		return performRequest(http.MethodPost, "/players", map[string]any{"id": id, "name": args[1]})
	},
}

var playersRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodDelete, "/players/"+url.PathEscape(args[0]), nil)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Record and read match statistics",
}

var statsSummaryCmd = &cobra.Command{
	Use:   "summary <player-id>",
	Short: "Show a player's counters per category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, statsPath(args[0]), nil)
	},
}

var statsAddCmd = &cobra.Command{
	Use:   "add <player-id> <match.json>",
	Short: "Record a match from a JSON file ('-' reads stdin)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var raw []byte
		var err error
		if args[1] == "-" {
			raw, err = io.ReadAll(os.Stdin)
		} else {
			raw, err = os.ReadFile(args[1])
		}
		if err != nil {
			return fmt.Errorf("failed to read match: %w", err)
		}
		var match map[string]any
		if err := json.Unmarshal(raw, &match); err != nil {
			return fmt.Errorf("match file is not a JSON object: %w", err)
		}
		return performRequest(http.MethodPut, statsPath(args[0]), map[string]any{"stats": match})
	},
}

var statsGetCmd = &cobra.Command{
	Use:   "get <player-id> <match-id>",
	Short: "Show one recorded match",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, statsPath(args[0])+"/"+url.PathEscape(args[1]), nil)
	},
}

var statsDeleteCmd = &cobra.Command{
	Use:   "delete <player-id> <match-id>",
	Short: "Delete a match from a player's statistics",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodDelete, statsPath(args[0])+"/"+url.PathEscape(args[1]), nil)
	},
}

func statsPath(playerID string) string {
	return "/player/" + url.PathEscape(playerID) + "/sport/" + url.PathEscape(sportName) + "/stats"
}

func performRequest(method, endpoint string, body any) error {
	target := host + endpoint
	if dryRun {
		target += "?dry_run=true"
	}
	fmt.Printf("Making %s request to %s\n", method, target)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}

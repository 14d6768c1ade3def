package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

func newApplyCmd() *cobra.Command {
	var (
		serverURL string
		apiKey    string
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "apply <override>",
		Short: "Apply an override through a running sigtuned service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one override string")
			}

			body, err := json.Marshal(map[string]string{"override": args[0]})
			if err != nil {
				return fmt.Errorf("encode request: %w", err)
			}

			req, err := http.NewRequestWithContext(cmd.Context(), "POST",
				serverURL+"/api/v1/params", bytes.NewReader(body))
			if err != nil {
				return fmt.Errorf("build request: %w", err)
			}
			req.Header.Set("Content-Type", "application/json")
			if apiKey != "" {
				req.Header.Set("X-API-Key", apiKey)
			}

			client := &http.Client{Timeout: timeout}
			resp, err := client.Do(req)
			if err != nil {
				return fmt.Errorf("call sigtuned: %w", err)
			}
			defer resp.Body.Close()

			payload, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("read response: %w", err)
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("sigtuned returned %s: %s", resp.Status, payload)
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(payload))
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "Base URL of the sigtuned service")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key for the service")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	return cmd
}

// Package main provides a lightweight health check utility for Docker containers.
// This tool is statically compiled and designed to work in minimal environments
// like scratch-based Docker images where standard tools (wget, curl) are unavailable.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	defaultPort    = "3001"
	requestTimeout = 5 * time.Second
	exitSuccess    = 0
	exitFailure    = 1
)

// buildAddress constructs the health check address. 127.0.0.1 is used instead
// of localhost so the check works in scratch images without /etc/hosts.
func buildAddress(port string) string {
	return fmt.Sprintf("127.0.0.1:%s", port)
}

// isHealthy reports whether a health payload declares the service healthy.
// A 200 with a degraded body (or an unreadable one) must not pass the probe.
func isHealthy(body []byte) bool {
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return false
	}
	return payload.Status == "healthy"
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	healthURL := fmt.Sprintf("http://%s/health", buildAddress(port))

	client := &http.Client{
		Timeout: requestTimeout,
	}

	resp, err := client.Get(healthURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
		os.Exit(exitFailure)
	}
	body, err := io.ReadAll(resp.Body)
	// Close immediately since we exit right after checking status
	// Note: defer won't work here because os.Exit bypasses deferred calls
	resp.Body.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Health check response unreadable: %v\n", err)
		os.Exit(exitFailure)
	}

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Health check returned non-OK status: %d\n", resp.StatusCode)
		os.Exit(exitFailure)
	}

	if !isHealthy(body) {
		fmt.Fprintf(os.Stderr, "Health check returned OK but payload is not healthy: %s\n", body)
		os.Exit(exitFailure)
	}

	os.Exit(exitSuccess)
}

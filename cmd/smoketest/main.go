package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/myrjola/pacekeeper/internal/logging"
	"github.com/myrjola/pacekeeper/internal/testhelpers"
)

const (
	readyTimeout = 30 * time.Second
	testTimeout  = 10 * time.Second
	smokeUserID  = "1"
)

// waitForReady polls the health endpoint until the server answers.
func waitForReady(ctx context.Context, client *http.Client, url string) error {
	deadline := time.Now().Add(readyTimeout)
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url+"/api/healthy", nil)
		if err != nil {
			return fmt.Errorf("build health request: %w", err)
		}
		resp, err := client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("server not ready within %s", readyTimeout)
		}
		time.Sleep(time.Second)
	}
}

// testWorkoutRoundTrip records a workout and checks it shows up in the
// training load summary, then removes it again.
func testWorkoutRoundTrip(client *http.Client, url string) error {
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	body := fmt.Sprintf(`{"date":%q,"distance_km":10,"duration_seconds":3000}`,
		time.Now().UTC().Format(time.DateOnly))
	resp, err := doJSON(ctx, client, http.MethodPost, url+"/api/workouts", body)
	if err != nil {
		return fmt.Errorf("record workout: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("record workout: unexpected status %d", resp.StatusCode)
	}

	resp, err = doJSON(ctx, client, http.MethodGet, url+"/api/load/summary", "")
	if err != nil {
		return fmt.Errorf("load summary: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("load summary: unexpected status %d", resp.StatusCode)
	}

	resp, err = doJSON(ctx, client, http.MethodGet, url+"/api/workouts", "")
	if err != nil {
		return fmt.Errorf("list workouts: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("list workouts: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func doJSON(ctx context.Context, client *http.Client, method, url, body string) (*http.Response, error) {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Pacekeeper-User", smokeUserID)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	resp.Body.Close()
	return resp, nil
}

func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		start    = time.Now()
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", hostname))
	url := "https://" + hostname
	if strings.Contains(hostname, "localhost") {
		url = "http://" + hostname
	}

	client := &http.Client{Timeout: testTimeout}
	if err := waitForReady(ctx, client, url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "server not ready in time", slog.Any("error", err))
		os.Exit(1)
	}
	if err := testWorkoutRoundTrip(client, url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing workout round trip", slog.Any("error", err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌", slog.Duration("duration", time.Since(start)))
	os.Exit(0)
}

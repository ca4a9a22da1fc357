// Package genimage drives a remote text-to-image service through its
// asynchronous submit/poll job lifecycle. Generation is bounded by a
// retry policy (submissions per marker, polls per job) and never
// fails: when the budget is exhausted or the service is unconfigured,
// callers get a placeholder image URL.
package genimage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Fixed generation parameters. The service renders small vector-style
// diagrams, so a compact model with few steps and a fixed seed keeps
// output cheap and reproducible.
const (
	modelName      = "Flux1schnell"
	negativePrompt = "blur, darkness, noise, low quality, artifacts, text, watermark"
	imageWidth     = 512
	imageHeight    = 512
	guidanceScale  = 7.5
	inferenceSteps = 8
	fixedSeed      = 42
)

type submitRequest struct {
	Prompt         string   `json:"prompt"`
	NegativePrompt string   `json:"negative_prompt"`
	Model          string   `json:"model"`
	Loras          []string `json:"loras"`
	Width          int      `json:"width"`
	Height         int      `json:"height"`
	Guidance       float64  `json:"guidance"`
	Steps          int      `json:"steps"`
	Seed           int      `json:"seed"`
}

type submitResponse struct {
	Data struct {
		RequestID string `json:"request_id"`
	} `json:"data"`
}

type statusResponse struct {
	Data struct {
		Status    string `json:"status"`
		ResultURL string `json:"result_url"`
		Result    string `json:"result"`
		Preview   string `json:"preview"`
	} `json:"data"`
}

// pollState tags the outcome of a single status poll.
type pollState int

const (
	pollPending pollState = iota // job still running, poll again
	pollReady                    // usable http(s) result URL
	pollOpaque                   // finished but result is not a fetchable URL
	pollFailed                   // job failed, resubmit counts against the budget
)

// pollResult is the decoded outcome of one status poll.
type pollResult struct {
	state pollState
	url   string
}

// client is the low-level HTTP binding for the generation service.
type client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// submit enqueues a generation job and returns its request ID.
func (c *client) submit(ctx context.Context, prompt string) (string, error) {
	payload := submitRequest{
		Prompt:         prompt,
		NegativePrompt: negativePrompt,
		Model:          modelName,
		Loras:          []string{},
		Width:          imageWidth,
		Height:         imageHeight,
		Guidance:       guidanceScale,
		Steps:          inferenceSteps,
		Seed:           fixedSeed,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal submit request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/txt2img", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("submit job: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("submit job: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read submit response: %w", err)
	}

	var parsed submitResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decode submit response: %w", err)
	}
	if parsed.Data.RequestID == "" {
		return "", fmt.Errorf("submit job: response carries no request id")
	}
	return parsed.Data.RequestID, nil
}

// poll fetches the current status of a job and classifies it.
func (c *client) poll(ctx context.Context, requestID string) (pollResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/request-status/"+requestID, nil)
	if err != nil {
		return pollResult{}, fmt.Errorf("create status request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pollResult{}, fmt.Errorf("poll job: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return pollResult{}, fmt.Errorf("poll job: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return pollResult{}, fmt.Errorf("read status response: %w", err)
	}

	var parsed statusResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return pollResult{}, fmt.Errorf("decode status response: %w", err)
	}

	return classify(parsed), nil
}

// pendingStates are job states that mean "poll again".
var pendingStates = map[string]bool{
	"pending":    true,
	"processing": true,
	"queued":     true,
	"running":    true,
}

// classify maps a status payload onto a tagged poll result. Only a
// literal http(s) URL counts as ready; base64 or other opaque result
// blobs are reported so the caller can decide (currently: keep
// polling, the service publishes the URL shortly after).
func classify(resp statusResponse) pollResult {
	status := strings.ToLower(strings.TrimSpace(resp.Data.Status))

	if pendingStates[status] {
		return pollResult{state: pollPending}
	}
	if status == "failed" || status == "error" || status == "cancelled" {
		return pollResult{state: pollFailed}
	}

	for _, candidate := range []string{resp.Data.ResultURL, resp.Data.Result, resp.Data.Preview} {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		if strings.HasPrefix(candidate, "http://") || strings.HasPrefix(candidate, "https://") {
			return pollResult{state: pollReady, url: candidate}
		}
		return pollResult{state: pollOpaque}
	}

	// Unexpected terminal status with no result: the job is not going
	// to produce one, so abandon it and let the caller resubmit.
	return pollResult{state: pollFailed}
}

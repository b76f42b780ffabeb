/*
Package oracle
File: gemini.go
Description:
    TextService implementation backed by the Gemini REST API
    (generativelanguage.googleapis.com). The API key comes from the API_KEY
    environment variable; without one the session runs in reduced mode and
    this client is never constructed.
*/

package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	// GeminiModel is the text model every lookup uses.
	GeminiModel = "gemini-2.5-flash-preview-04-17"

	// APIKeyEnvVar names the environment variable holding the credential.
	APIKeyEnvVar = "API_KEY"

	geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"
)

// Gemini calls the Generative Language API over plain HTTP.
type Gemini struct {
	apiKey string
	client *http.Client
}

// NewGeminiFromEnv builds a client from the API_KEY environment variable.
// A missing key returns an error; the caller degrades the session instead
// of failing the boot.
func NewGeminiFromEnv() (*Gemini, error) {
	key := os.Getenv(APIKeyEnvVar)
	if key == "" {
		return nil, fmt.Errorf("%s environment variable not found", APIKeyEnvVar)
	}
	return &Gemini{
		apiKey: key,
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Request/response shapes for generateContent. Only the fields we read.

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Lookup sends the prompt and returns the first candidate's text, trimmed.
func (g *Gemini) Lookup(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	url := fmt.Sprintf(geminiEndpoint, GeminiModel)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling gemini: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned %s", resp.Status)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	return strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text), nil
}

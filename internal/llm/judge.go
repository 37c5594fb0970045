// Package llm defines the boundary to the LLM-backed judgment service.
// Detectors consume it through one uniform contract; how judgments are
// produced is outside this repository.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vidlens/abcd/internal/config"
)

// Modality selects what the judge looks at.
type Modality struct {
	Type     string `json:"type"` // "video" or "text"
	VideoURI string `json:"video_uri,omitempty"`
}

// Verdict is one judgment for one feature prompt.
type Verdict struct {
	Detected    bool   `json:"detected"`
	Explanation string `json:"explanation"`
}

// Judge evaluates a feature prompt against a video or transcript.
type Judge interface {
	Judge(ctx context.Context, feature, prompt string, modality Modality) (Verdict, error)
}

// HTTPJudge calls the judgment service over HTTP. The request context
// carries the caller's timeout; a timed-out judgment degrades at the
// detector, never here.
type HTTPJudge struct {
	endpoint   string
	model      string
	apiKey     string
	maxTokens  int
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewHTTPJudge(cfg *config.LLMConfig, logger *logrus.Logger) *HTTPJudge {
	return &HTTPJudge{
		endpoint:   cfg.Endpoint,
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		maxTokens:  cfg.MaxTokens,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

func (j *HTTPJudge) Judge(ctx context.Context, feature, prompt string, modality Modality) (Verdict, error) {
	payload := struct {
		Model     string   `json:"model"`
		Feature   string   `json:"feature"`
		Prompt    string   `json:"prompt"`
		Modality  Modality `json:"modality"`
		MaxTokens int      `json:"max_tokens"`
	}{
		Model:     j.model,
		Feature:   feature,
		Prompt:    prompt,
		Modality:  modality,
		MaxTokens: j.maxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Verdict{}, fmt.Errorf("marshal judge request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/judgments", j.endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Verdict{}, fmt.Errorf("create judge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+j.apiKey)

	resp, err := j.httpClient.Do(req)
	if err != nil {
		return Verdict{}, fmt.Errorf("judge request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Verdict{}, fmt.Errorf("judge request failed: HTTP %d: %s", resp.StatusCode, msg)
	}

	var verdict Verdict
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return Verdict{}, fmt.Errorf("decode judge response: %w", err)
	}

	j.logger.WithFields(logrus.Fields{
		"feature":  feature,
		"detected": verdict.Detected,
	}).Debug("LLM judgment received")

	return verdict, nil
}

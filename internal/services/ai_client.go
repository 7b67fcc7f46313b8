package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/yarnwise/yarnwise-backend/internal/logger"
	"github.com/yarnwise/yarnwise-backend/internal/utils"
)

// Function names exposed by the AI backend.
const (
	FunctionGenerateSteps  = "generate-steps"
	FunctionContextualHelp = "contextual-help"
)

type GenerateStepsRequest struct {
	ProjectType        string `json:"project_type"`
	Difficulty         int    `json:"difficulty"`
	Yarn               string `json:"yarn"`
	Needles            string `json:"needles"`
	Size               string `json:"size,omitempty"`
	Notes              string `json:"notes,omitempty"`
	CustomInstructions string `json:"custom_instructions,omitempty"`
}

type GeneratedStep struct {
	StepType     string   `json:"step_type"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	RowStart     int      `json:"row_start,omitempty"`
	RowEnd       int      `json:"row_end,omitempty"`
	RowCount     int      `json:"row_count,omitempty"`
	StitchCount  int      `json:"stitch_count,omitempty"`
	RepeatCount  int      `json:"repeat_count,omitempty"`
	Milestone    bool     `json:"milestone,omitempty"`
	TechniqueIDs []string `json:"technique_ids,omitempty"`
	ColorFrom    string   `json:"color_from,omitempty"`
	ColorTo      string   `json:"color_to,omitempty"`
	ColorName    string   `json:"color_name,omitempty"`
}

type GenerateStepsResponse struct {
	Steps         []GeneratedStep `json:"steps"`
	Techniques    []string        `json:"techniques"`
	TotalRowCount int             `json:"total_row_count"`
	TimeEstimate  string          `json:"time_estimate"`
	Tips          []string        `json:"tips"`
}

type ContextualHelpRequest struct {
	TechniqueID uuid.UUID `json:"technique_id"`
	SkillLevel  string    `json:"skill_level"`
	Context     string    `json:"context,omitempty"`
}

type ContextualHelpResponse struct {
	Explanation    string   `json:"explanation"`
	Rationale      string   `json:"rationale"`
	Steps          []string `json:"steps"`
	Tips           []string `json:"tips"`
	CommonMistakes []string `json:"common_mistakes"`
	VideoStartSec  *int     `json:"video_start_sec,omitempty"`
	VideoEndSec    *int     `json:"video_end_sec,omitempty"`
	RelatedIDs     []string `json:"related_technique_ids,omitempty"`
}

// AIClient calls the managed function endpoints that produce generated
// content. It performs no retries; a transient failure is surfaced to the
// caller so the user can re-trigger.
type AIClient interface {
	Invoke(ctx context.Context, functionName string, body any, out any) error
	GenerateSteps(ctx context.Context, req *GenerateStepsRequest) (*GenerateStepsResponse, error)
	ContextualHelp(ctx context.Context, req *ContextualHelpRequest) (*ContextualHelpResponse, error)
}

type aiClient struct {
	log        *logger.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewAIClient(log *logger.Logger) AIClient {
	serviceLog := log.With("service", "AIClient")
	baseURL := utils.GetEnv("AI_FUNCTIONS_URL", "", serviceLog)
	apiKey := utils.GetEnv("AI_FUNCTIONS_KEY", "", serviceLog)
	timeout := utils.GetEnvAsInt("AI_FUNCTIONS_TIMEOUT_SECONDS", 60, serviceLog)
	return &aiClient{
		log:        serviceLog,
		httpClient: &http.Client{Timeout: time.Duration(timeout) * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

func (c *aiClient) Invoke(ctx context.Context, functionName string, body any, out any) error {
	if c.baseURL == "" {
		return fmt.Errorf("AI_FUNCTIONS_URL is not configured")
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", functionName, err)
	}
	url := fmt.Sprintf("%s/%s", c.baseURL, functionName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", functionName, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("function %s call failed: %w", functionName, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", functionName, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("function %s returned status %d: %s", functionName, resp.StatusCode, string(raw))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", functionName, err)
	}
	return nil
}

func (c *aiClient) GenerateSteps(ctx context.Context, req *GenerateStepsRequest) (*GenerateStepsResponse, error) {
	var out GenerateStepsResponse
	if err := c.Invoke(ctx, FunctionGenerateSteps, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *aiClient) ContextualHelp(ctx context.Context, req *ContextualHelpRequest) (*ContextualHelpResponse, error) {
	var out ContextualHelpResponse
	if err := c.Invoke(ctx, FunctionContextualHelp, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Package gemini implements the Gemini AI integration used for replies,
// chat digests, and profile-based roasts.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"google.golang.org/genai"

	"github.com/renatkhugaev-eng/guildbot/internal/config"
	"github.com/renatkhugaev-eng/guildbot/internal/database"
)

// Client defines the AI operations used throughout the application.
type Client interface {
	// GenerateReply produces a conversational reply to the recent chat
	// messages, with bot messages mapped to the model role.
	GenerateReply(ctx context.Context, messages []*database.Message, botID int64, botUsername, botFirstName string) (string, error)

	// GenerateSummary produces a digest of the recent chat messages.
	GenerateSummary(ctx context.Context, messages []*database.Message) (string, error)

	// GenerateRoast produces a roast from a formatted behavioral dossier.
	GenerateRoast(ctx context.Context, dossier string) (string, error)
}

type sdkClient struct {
	genaiClient      *genai.Client
	log              *slog.Logger
	contentConfig    *genai.GenerateContentConfig
	defaultModelName string
	maxRetries       int
	retryDelay       time.Duration
}

// NewClient creates a new Gemini AI client with the provided configuration.
func NewClient(ctx context.Context, cfg config.GeminiConfig, log *slog.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	gi, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	baseCfg := &genai.GenerateContentConfig{
		Temperature: &cfg.Temperature,

		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
		},
	}

	if cfg.SystemInstruction != "" {
		baseCfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: cfg.SystemInstruction}}}
	}

	logger := log.With("component", "gemini_client")
	logger.Info("Gemini client initialized", "model", cfg.ModelName)
	return &sdkClient{
		genaiClient:      gi,
		log:              logger,
		contentConfig:    baseCfg,
		defaultModelName: cfg.ModelName,
		maxRetries:       cfg.MaxRetries,
		retryDelay:       time.Duration(cfg.RetryDelaySeconds) * time.Second,
	}, nil
}

func formatMessageForAI(m *database.Message) string {
	return fmt.Sprintf("[%s] UID %d: %s", m.CreatedAt.Format("2006-01-02 15:04:05"), m.UserID, m.Content)
}

func (c *sdkClient) generateContentWithRetries(ctx context.Context, modelName string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	var resp *genai.GenerateContentResponse
	var err error

	for i := 0; i <= c.maxRetries; i++ {
		resp, err = c.genaiClient.Models.GenerateContent(ctx, modelName, contents, cfg)
		if err == nil {
			return resp, nil
		}

		c.log.WarnContext(ctx, "Gemini API call failed, checking for retry", "attempt", i+1, "max_retries", c.maxRetries, "error", err)

		var apiErr *genai.APIError
		if errors.As(err, &apiErr) && (apiErr.Code == 500 || apiErr.Code == 503) {
			if i < c.maxRetries {
				c.log.InfoContext(ctx, "Retrying Gemini API call", "delay", c.retryDelay, "code", apiErr.Code)
				time.Sleep(c.retryDelay)
				continue
			}
			return nil, fmt.Errorf("gemini API call failed after %d retries (APIError code %d): %w", c.maxRetries, apiErr.Code, err)
		}

		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}
	return nil, err
}

func (c *sdkClient) GenerateReply(ctx context.Context, messages []*database.Message, botID int64, botUsername, botFirstName string) (string, error) {
	c.log.DebugContext(ctx, "Generating reply", "message_count", len(messages))

	var contents []*genai.Content
	for _, m := range messages {
		var role genai.Role = genai.RoleUser
		if m.UserID == botID {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(formatMessageForAI(m), role))
	}

	copyCfg := *c.contentConfig
	header := fmt.Sprintf(MentionSystemInstructionHeader, botFirstName, botUsername, botUsername)
	var existing string
	if c.contentConfig.SystemInstruction != nil && len(c.contentConfig.SystemInstruction.Parts) > 0 {
		existing = c.contentConfig.SystemInstruction.Parts[0].Text
	}
	copyCfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: header + existing}}}

	resp, err := c.generateContentWithRetries(ctx, c.defaultModelName, contents, &copyCfg)
	if err != nil {
		c.log.ErrorContext(ctx, "Gemini reply generation failed", "error", err)
		return "", err
	}
	return c.extractTextFromResponse(ctx, resp, "reply")
}

func (c *sdkClient) GenerateSummary(ctx context.Context, messages []*database.Message) (string, error) {
	c.log.DebugContext(ctx, "Generating summary", "message_count", len(messages))
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages to summarize")
	}

	var contents []*genai.Content
	for _, m := range messages {
		contents = append(contents, genai.NewContentFromText(formatMessageForAI(m), genai.RoleUser))
	}

	copyCfg := *c.contentConfig
	copyCfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: SummarySystemInstruction}}}

	resp, err := c.generateContentWithRetries(ctx, c.defaultModelName, contents, &copyCfg)
	if err != nil {
		c.log.ErrorContext(ctx, "Gemini summary generation failed", "error", err)
		return "", err
	}
	return c.extractTextFromResponse(ctx, resp, "summary")
}

func (c *sdkClient) GenerateRoast(ctx context.Context, dossier string) (string, error) {
	c.log.DebugContext(ctx, "Generating roast", "dossier_len", len(dossier))
	if dossier == "" {
		return "", fmt.Errorf("dossier is empty")
	}

	contents := []*genai.Content{genai.NewContentFromText(dossier, genai.RoleUser)}

	copyCfg := *c.contentConfig
	copyCfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: RoastSystemInstruction}}}

	resp, err := c.generateContentWithRetries(ctx, c.defaultModelName, contents, &copyCfg)
	if err != nil {
		c.log.ErrorContext(ctx, "Gemini roast generation failed", "error", err)
		return "", err
	}
	return c.extractTextFromResponse(ctx, resp, "roast")
}

var aiPrefixRe = regexp.MustCompile(`(?m)^(?:\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] UID \d+: )+`)

func (c *sdkClient) extractTextFromResponse(ctx context.Context, resp *genai.GenerateContentResponse, op string) (string, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		reasonMsg := fmt.Sprintf("%v", resp.PromptFeedback.BlockReason)
		if resp.PromptFeedback.BlockReasonMessage != "" {
			reasonMsg = resp.PromptFeedback.BlockReasonMessage
		}
		c.log.ErrorContext(ctx, "Gemini request blocked", "operation", op, "reason", reasonMsg)
		return "", fmt.Errorf("%s blocked by safety filter: %s", op, reasonMsg)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		finishReason := "unknown"
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != genai.FinishReasonUnspecified {
			finishReason = fmt.Sprintf("%v", resp.Candidates[0].FinishReason)
		}
		c.log.WarnContext(ctx, "Gemini response missing candidates or content", "operation", op, "finish_reason", finishReason)
		return "", fmt.Errorf("%s returned no content, finish reason: %s", op, finishReason)
	}

	cleanText := aiPrefixRe.ReplaceAllString(resp.Text(), "")
	if cleanText == "" {
		return "", fmt.Errorf("%s returned empty text", op)
	}
	return cleanText, nil
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang-fund/config"
	"golang-fund/internal/apperror"
	"golang-fund/internal/dto"
	"golang-fund/internal/model"
	"golang-fund/pkg/logger"
	"golang-fund/pkg/utils"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
	"gorm.io/gorm"
)

// AIRepository turns a fully-populated analysis payload into prose. The
// structured input is serialized with every field present; undefined metrics
// stay as explicit nulls so the model sees what could not be computed.
type AIRepository interface {
	GenerateFundReport(ctx context.Context, payload *dto.AIReportPayload) (*dto.AIFundReport, error)
}

type geminiAIRepository struct {
	db             *gorm.DB
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

func NewGeminiAIRepository(db *gorm.DB, cfg *config.Config, log *logger.Logger) (AIRepository, error) {
	secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)

	genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.Gemini.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiAIRepository{
		db:             db,
		cfg:            cfg,
		logger:         log,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		genAiClient:    genAiClient,
	}, nil
}

func (r *geminiAIRepository) GenerateFundReport(ctx context.Context, payload *dto.AIReportPayload) (*dto.AIFundReport, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report payload: %w", err)
	}

	prompt := r.promptFundReport(payload, payloadJSON)

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: gemini rate limiter interrupted: %v", apperror.ErrTransientData, err)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}
	resp, err := r.genAiClient.Models.GenerateContent(ctx, r.cfg.Gemini.BaseModel, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: gemini request failed: %v", apperror.ErrTransientData, err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: gemini returned empty content", apperror.ErrTransientData)
	}

	report := &dto.AIFundReport{
		FundCode:    payload.FundCode,
		Summary:     strings.TrimSpace(text),
		GeneratedAt: utils.TimeNowCST(),
	}

	record := model.AnalysisReport{
		FundCode: payload.FundCode,
		Kind:     "ai_report",
		Payload:  payloadJSON,
		Prompt:   prompt,
		Response: report.Summary,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		// The prose was generated; losing the audit row is logged, not fatal.
		r.logger.ErrorContext(ctx, "failed to persist analysis report", logger.ErrorField(err))
	}

	return report, nil
}

func (r *geminiAIRepository) promptFundReport(payload *dto.AIReportPayload, payloadJSON []byte) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(
		"You are a professional fund analyst. Write a concise plain-language report for fund %s (%s) based only on the structured data below.\n\n",
		payload.FundCode, payload.FundName,
	))
	sb.WriteString(`### Rules:
1. Cover recent trend, risk profile (volatility, max drawdown, VaR), and the backtest outcome.
2. A JSON null means the metric could not be computed; say so instead of inventing a value.
3. Do not give personalized investment advice; describe what the numbers show.
4. Keep it under 300 words.
`)
	sb.WriteString("\n### Data:\n```json\n")
	sb.Write(payloadJSON)
	sb.WriteString("\n```\n")

	return sb.String()
}

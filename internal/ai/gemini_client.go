package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"VisionTalk/internal/config"
	"VisionTalk/internal/service/image"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
)

const defaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"

var geminiScopes = []string{
	"https://www.googleapis.com/auth/cloud-platform",
	"https://www.googleapis.com/auth/generative-language",
}

// GeminiClient ходит в generateContent Generative Language API.
type GeminiClient struct {
	http     *http.Client
	endpoint string
	model    string
	apiKey   string
	logger   *zap.SugaredLogger
}

// NewGeminiClient создаёт клиента. С пустым APIKey авторизация идёт через ADC.
func NewGeminiClient(ctx context.Context, cfg config.GeminiConfig, logger *zap.SugaredLogger) (*GeminiClient, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	c := &GeminiClient{
		http:     http.DefaultClient,
		endpoint: strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/"),
		model:    strings.TrimSpace(cfg.Model),
		apiKey:   strings.TrimSpace(cfg.APIKey),
		logger:   logger,
	}
	if c.endpoint == "" {
		c.endpoint = defaultGeminiEndpoint
	}
	if c.model == "" {
		return nil, errors.New("gemini: empty model name")
	}
	if c.apiKey == "" {
		httpClient, err := google.DefaultClient(ctx, geminiScopes...)
		if err != nil {
			return nil, errors.New("gemini: API key not found. Set GOOGLE_API_KEY in .env or configure Application Default Credentials")
		}
		c.http = httpClient
	}
	return c, nil
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type generateContentRequest struct {
	Contents []geminiContent `json:"contents"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func inlinePart(img *image.ProcessedImage) geminiPart {
	mime := img.MimeType
	if mime == "" {
		mime = "image/jpeg"
	}
	return geminiPart{InlineData: &geminiInlineData{MimeType: mime, Data: img.Base64()}}
}

// geminiParts — текст всегда идёт перед картинкой.
func geminiParts(req Request) ([]geminiPart, error) {
	switch req.Kind {
	case KindTextOnly:
		return []geminiPart{{Text: req.Text}}, nil
	case KindImageOnly:
		return []geminiPart{inlinePart(req.Image)}, nil
	case KindCombined:
		return []geminiPart{{Text: req.Text}, inlinePart(req.Image)}, nil
	default:
		return nil, ErrEmptyRequest
	}
}

func (c *GeminiClient) Generate(ctx context.Context, req Request) (string, error) {
	parts, err := geminiParts(req)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(generateContentRequest{
		Contents: []geminiContent{{Role: "user", Parts: parts}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.endpoint, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("x-goog-api-key", c.apiKey)
	}

	started := time.Now()
	c.logger.Infow("Запрос в Gemini...", "kind", req.Kind.String(), "model", c.model)
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Errorw("Ошибка запроса Gemini", "duration", time.Since(started).String(), "error", err)
		return "", err
	}
	defer resp.Body.Close()
	c.logger.Infow("Ответ Gemini получен", "status", resp.StatusCode, "duration", time.Since(started).String())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var ge geminiError
		if json.Unmarshal(b, &ge) == nil && ge.Error.Message != "" {
			return "", fmt.Errorf("gemini error: status=%d, %s: %s", resp.StatusCode, ge.Error.Status, ge.Error.Message)
		}
		if len(b) == 0 {
			b = []byte(resp.Status)
		}
		return "", fmt.Errorf("gemini error: status=%d, body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var gr generateContentResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 5<<20)).Decode(&gr); err != nil {
		return "", fmt.Errorf("gemini: decode json response: %w", err)
	}
	return responseText(gr)
}

// responseText склеивает текстовые части первого кандидата.
func responseText(gr generateContentResponse) (string, error) {
	if len(gr.Candidates) == 0 {
		if gr.PromptFeedback != nil && gr.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("gemini: prompt blocked: %s", gr.PromptFeedback.BlockReason)
		}
		return "", errors.New("gemini: empty response")
	}

	cand := gr.Candidates[0]
	var sb strings.Builder
	for _, p := range cand.Content.Parts {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini: no text in response, finish reason %s", cand.FinishReason)
	}
	return sb.String(), nil
}

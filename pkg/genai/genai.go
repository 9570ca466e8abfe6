// Package genai 封装对外部文本生成服务的调用，接口兼容 OpenAI completions 协议.
//
// 生成服务是外部协作方：慢、可能失败，调用方应配合熔断中间件使用.
package genai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/yeisme/artifactvault/pkg/configs"
)

// Generator 文本生成接口.fast 为 true 时使用低延迟模型.
type Generator interface {
	Generate(ctx context.Context, prompt string, fast bool) (string, error)
}

// HTTPGenerator 基于 HTTP 的 Generator 实现.
type HTTPGenerator struct {
	cfg    *configs.GenAIConfig
	client *http.Client
}

// NewHTTPGenerator 创建 HTTP 生成客户端.
func NewHTTPGenerator(cfg *configs.GenAIConfig) *HTTPGenerator {
	return &HTTPGenerator{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.TimeoutDuration()},
	}
}

// completionRequest OpenAI completions 协议的请求体.
type completionRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// completionResponse OpenAI completions 协议的响应体（只取需要的字段）.
type completionResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const defaultMaxTokens = 1024

// Generate 调用生成服务并返回第一个候选文本.
func (g *HTTPGenerator) Generate(ctx context.Context, prompt string, fast bool) (string, error) {
	model := g.cfg.ProModel
	if fast {
		model = g.cfg.FastModel
	}

	body, err := sonic.Marshal(completionRequest{
		Model:     model,
		Prompt:    prompt,
		MaxTokens: defaultMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if g.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call generation service: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}

	var cr completionResponse
	if err := sonic.Unmarshal(data, &cr); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := resp.Status
		if cr.Error != nil {
			msg = cr.Error.Message
		}

		return "", fmt.Errorf("generation service returned %d: %s", resp.StatusCode, msg)
	}

	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("generation service returned no choices")
	}

	return cr.Choices[0].Text, nil
}

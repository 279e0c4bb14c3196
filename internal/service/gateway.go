package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"file-insight/internal/config"
	"file-insight/internal/logger"
	"file-insight/internal/metrics"
	"file-insight/internal/model"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Completer turns a composed conversation into completion text.
type Completer interface {
	Complete(ctx context.Context, messages []model.ChatMessage) (string, error)
}

// Gateway calls an OpenAI-compatible chat completion endpoint exactly once
// per request. Retries are disabled in the client.
type Gateway struct {
	client *openai.Client
	cfg    config.AIConfig
}

// NewGateway builds a gateway for cfg. httpClient may be nil.
func NewGateway(cfg config.AIConfig, httpClient *http.Client) *Gateway {
	base := cfg.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	opts := []option.RequestOption{
		option.WithBaseURL(base),
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &Gateway{client: openai.NewClient(opts...), cfg: cfg}
}

func (g *Gateway) Model() string { return g.cfg.Model }

// Configured reports whether an API key is present.
func (g *Gateway) Configured() bool { return g.cfg.APIKey != "" }

func (g *Gateway) Complete(ctx context.Context, messages []model.ChatMessage) (string, error) {
	if !g.Configured() {
		metrics.GatewayCallsTotal.WithLabelValues(g.cfg.Model, "config").Inc()
		return "", ErrMissingAPIKey
	}
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.F(g.cfg.Model),
		Messages: openai.F(toMessageParams(messages)),
	})
	metrics.GatewayCallDuration.WithLabelValues(g.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		err = classify(ctx, err)
		metrics.GatewayCallsTotal.WithLabelValues(g.cfg.Model, outcome(err)).Inc()
		logger.FromContext(ctx).Error("ai gateway call failed", "model", g.cfg.Model, "err", err)
		return "", err
	}

	// content must be present and a string; null covers missing
	if len(resp.Choices) == 0 || resp.Choices[0].Message.JSON.Content.IsNull() || resp.Choices[0].Message.JSON.Content.IsInvalid() {
		metrics.GatewayCallsTotal.WithLabelValues(g.cfg.Model, "error").Inc()
		return "", &GatewayError{Err: errors.New("malformed upstream response: no choices[0].message.content string")}
	}
	metrics.GatewayCallsTotal.WithLabelValues(g.cfg.Model, "ok").Inc()
	return resp.Choices[0].Message.Content, nil
}

func toMessageParams(messages []model.ChatMessage) []openai.ChatCompletionMessageParamUnion {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case model.RoleSystem:
			params = append(params, openai.SystemMessage(m.Content))
		default:
			params = append(params, openai.UserMessage(m.Content))
		}
	}
	return params
}

func classify(ctx context.Context, err error) error {
	var apiErr *openai.Error
	switch {
	case errors.As(err, &apiErr):
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests:
			return ErrRateLimited
		case http.StatusPaymentRequired:
			return ErrPaymentRequired
		default:
			return &GatewayError{Status: apiErr.StatusCode, Err: err}
		}
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrGatewayTimeout, err)
	default:
		return &GatewayError{Err: err}
	}
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrPaymentRequired):
		return "payment_required"
	case errors.Is(err, ErrGatewayTimeout):
		return "timeout"
	default:
		return "error"
	}
}

// Package completion asks a language-completion API for docstring text.
package completion

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/NikitaCOEUR/doxide/internal/derrors"
	"github.com/NikitaCOEUR/doxide/internal/logger"
)

// Sampling parameters for docstring completions
const (
	defaultTemperature = 0.3
	defaultTopP        = 1
	minMaxTokens       = 16
	defaultTimeout     = 60 * time.Second
)

// Request describes the function to document
type Request struct {
	Text       string
	LanguageID string
}

// Provider returns one or more candidate docstrings, best first
type Provider interface {
	Complete(ctx context.Context, req Request) ([]string, error)
}

// Options configures the OpenAI provider
type Options struct {
	Model             string
	APIKey            string
	BaseURL           string
	N                 int
	Timeout           time.Duration
	RequestsPerMinute int
	// StopTokens returns the stop sequences for a language id
	StopTokens func(languageID string) []string
	Prompt     *Prompt
	HTTPClient *http.Client
	Logger     *logger.Logger
}

// OpenAI calls the legacy completions endpoint of an OpenAI-compatible API
type OpenAI struct {
	client     *openai.Client
	model      string
	apiKey     string
	n          int
	timeout    time.Duration
	limiter    *rate.Limiter
	stopTokens func(string) []string
	prompt     *Prompt
	log        *logger.Logger
}

// NewOpenAI creates the provider. A missing API key is not an error here;
// it is reported on the first Complete call so lenses still work offline.
func NewOpenAI(opts Options) (*OpenAI, error) {
	config := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		config.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")
	}
	if opts.HTTPClient != nil {
		config.HTTPClient = opts.HTTPClient
	}

	prompt := opts.Prompt
	if prompt == nil {
		var err error
		if prompt, err = ParsePrompt("", false); err != nil {
			return nil, err
		}
	}

	n := opts.N
	if n < 1 {
		n = 1
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	stop := opts.StopTokens
	if stop == nil {
		stop = func(string) []string { return []string{"#", `"""`, "'''"} }
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	p := &OpenAI{
		client:     openai.NewClientWithConfig(config),
		model:      opts.Model,
		apiKey:     opts.APIKey,
		n:          n,
		timeout:    timeout,
		stopTokens: stop,
		prompt:     prompt,
		log:        log.WithComponent("completion"),
	}
	if opts.RequestsPerMinute > 0 {
		p.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}
	return p, nil
}

// MaxTokens is the completion budget for a function text: half its length,
// but never below a small floor.
func MaxTokens(text string) int {
	n := len(text) / 2
	if n < minMaxTokens {
		return minMaxTokens
	}
	return n
}

// Complete implements Provider
func (p *OpenAI) Complete(ctx context.Context, req Request) ([]string, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, derrors.NewNoFunctionError("", 0)
	}
	if p.apiKey == "" {
		return nil, derrors.NewCredentialsError("openai", "no API key configured: set OPENAI_API_KEY or openAI.apiKey")
	}

	prompt, err := p.prompt.Render(req.Text, req.LanguageID)
	if err != nil {
		return nil, derrors.NewCompletionError(p.model, "could not build prompt", err)
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, derrors.NewCompletionError(p.model, "rate limiter", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	request := openai.CompletionRequest{
		Model:       p.model,
		Prompt:      prompt,
		MaxTokens:   MaxTokens(req.Text),
		Temperature: defaultTemperature,
		TopP:        defaultTopP,
		N:           p.n,
		Stop:        p.stopTokens(req.LanguageID),
	}

	p.log.Debug().
		Str("model", p.model).
		Str("lang", req.LanguageID).
		Int("max_tokens", request.MaxTokens).
		Int("n", request.N).
		Strs("stop", request.Stop).
		Msg("completion request")

	start := time.Now()
	resp, err := p.client.CreateCompletion(ctx, request)
	latency := time.Since(start)
	if err != nil {
		p.log.Error().Str("model", p.model).Err(err).Dur("latency_ms", latency).Msg("completion failed")
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusUnauthorized {
			return nil, derrors.NewCredentialsError("openai", "API key rejected: "+apiErr.Message)
		}
		return nil, derrors.NewCompletionError(p.model, "could not generate docstring", err)
	}

	if len(resp.Choices) == 0 {
		return nil, derrors.NewCompletionError(p.model, "empty response from completion API", nil)
	}

	choices := resp.Choices
	sort.SliceStable(choices, func(i, j int) bool { return choices[i].Index < choices[j].Index })
	texts := make([]string, len(choices))
	for i, choice := range choices {
		texts[i] = choice.Text
	}

	p.log.Debug().
		Int("choices", len(texts)).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Dur("latency_ms", latency).
		Msg("completion received")

	return texts, nil
}

// ProviderFunc adapts a function to the Provider interface
type ProviderFunc func(ctx context.Context, req Request) ([]string, error)

// Complete implements Provider
func (f ProviderFunc) Complete(ctx context.Context, req Request) ([]string, error) {
	return f(ctx, req)
}

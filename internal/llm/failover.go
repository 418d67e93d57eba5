package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/soyeahso/safetalk/internal/logging"
)

// FailoverClient tries each client in order, moving on only when the
// error suggests another provider could succeed.
type FailoverClient struct {
	clients []Client
	log     *logging.Logger
}

// NewFailoverClient chains clients, primary first.
func NewFailoverClient(log *logging.Logger, clients ...Client) *FailoverClient {
	return &FailoverClient{clients: clients, log: log.Sub("failover")}
}

// Name joins the chained provider names with "+".
func (f *FailoverClient) Name() string {
	names := make([]string, len(f.clients))
	for i, c := range f.clients {
		names[i] = c.Name()
	}
	return strings.Join(names, "+")
}

// Complete returns the first successful response. A non-retryable error
// stops the chain.
func (f *FailoverClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	lastErr := errors.New("failover: no providers")
	for _, client := range f.clients {
		resp, err := client.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if ctx.Err() != nil || !isRetryable(err) {
			return nil, err
		}
		f.log.Warn().Str("provider", client.Name()).Err(err).Msg("retryable error, trying next provider")
	}
	return nil, lastErr
}

// isRetryable reports whether err suggests trying another provider: auth
// failures, rate limits, server errors and transport failures.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	var provErr *ProviderError
	if errors.As(err, &provErr) {
		switch provErr.Code {
		case 0, 401, 403, 429, 500, 502, 503, 529:
			return true
		}
		return false
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "overloaded") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "capacity") ||
		strings.Contains(msg, "timeout")
}

// Package chat relays messages to the assistant webhook and turns whatever comes back into a reply.
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	ttlworker "github.com/FloatTech/ttl"
	"github.com/bytedance/sonic"
	"github.com/charmbracelet/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrRateLimited  = errors.New("too many messages, slow down")
)

// Replies used when the webhook gives nothing usable.
const (
	EmptyJSONReply   = "I'm sorry, but I didn't receive a proper response from the AI service. This might be a temporary issue with the server. Please try asking your question again."
	EmptyTextReply   = "I'm sorry, but I didn't receive a proper response from the AI service. Please try your question again."
	UnparsableReply  = "I received your message but had trouble processing the response. Please try again."
	NoAnswerReply    = "I received your message, but I'm having trouble generating a response right now. Please try again or check if the AI service is properly configured."
	UnreachableReply = "Sorry, I'm having trouble connecting right now. Please try again later."
)

const (
	anonymousID    = "anonymous"
	anonymousEmail = "anonymous@example.com"
	requestTimeout = 30 * time.Second
	limiterIdle    = 10 * time.Minute
	maxBodyBytes   = 1 << 20
)

// replyKeys are tried in order on a JSON object body.
var replyKeys = []string{"response", "message", "text", "reply"}

// Sender identifies who is chatting. Both fields may be empty.
type Sender struct {
	ID    string
	Email string
}

type Reply struct {
	Text string    `json:"text"`
	At   time.Time `json:"timestamp"`
	// Fallback is set when Text is one of the canned replies.
	Fallback bool `json:"fallback"`
}

type Client struct {
	webhook    string
	httpClient *http.Client
	logger     *log.Logger
	perMinute  int
	now        func() time.Time

	mu       sync.Mutex
	closed   bool
	limiters *ttlworker.Cache[string, *rate.Limiter]
}

// New builds a client for webhookURL allowing perMinute messages per sender.
// perMinute <= 0 disables the limit.
func New(webhookURL string, perMinute int, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Client{
		webhook: webhookURL,
		httpClient: &http.Client{
			Timeout:   requestTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger:    logger,
		perMinute: perMinute,
		now:       time.Now,
		limiters:  ttlworker.NewCache[string, *rate.Limiter](limiterIdle),
	}
}

func cleanUserID(id string) string {
	if id == "" {
		id = anonymousID
	}
	return strings.ReplaceAll(id, "-", "_")
}

func (c *Client) allow(key string) bool {
	if c.perMinute <= 0 {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	// GetOrSet refreshes the entry under the cache lock, so active senders keep their limiter
	lim, _ := c.limiters.GetOrSet(key, rate.NewLimiter(rate.Every(time.Minute/time.Duration(c.perMinute)), c.perMinute))
	return lim.Allow()
}

// Close releases the limiter cache. Messages sent afterwards are not rate limited.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.limiters.Destroy()
}

// Send relays message and returns the assistant's reply. Webhook failures never surface as
// errors; they produce a Fallback reply instead.
func (c *Client) Send(ctx context.Context, from Sender, message string) (*Reply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}
	userID := cleanUserID(from.ID)
	if !c.allow(userID) {
		return nil, ErrRateLimited
	}
	email := from.Email
	if email == "" {
		email = anonymousEmail
	}

	text, fallback, err := c.call(ctx, message, userID, email)
	if err != nil {
		c.logger.Error("chat webhook failed", "user", userID, "err", err)
		text, fallback = UnreachableReply, true
	}
	return &Reply{Text: text, At: c.now().UTC(), Fallback: fallback}, nil
}

func (c *Client) call(ctx context.Context, message, userID, email string) (string, bool, error) {
	u, err := url.Parse(c.webhook)
	if err != nil {
		return "", false, fmt.Errorf("invalid webhook URL: %w", err)
	}
	q := u.Query()
	q.Set("message", message)
	q.Set("userId", userID)
	q.Set("userEmail", email)
	q.Set("timestamp", c.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Accept", "application/json, text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", false, fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", false, fmt.Errorf("failed to read webhook body: %w", err)
	}

	text, fallback := ParseReply(resp.Header.Get("Content-Type"), body)
	return text, fallback, nil
}

// ParseReply extracts the reply text from a webhook response body. The second result is true
// when a canned reply was substituted.
func ParseReply(contentType string, body []byte) (string, bool) {
	if !strings.Contains(strings.ToLower(contentType), "application/json") {
		if text := string(body); text != "" {
			return text, false
		}
		return EmptyTextReply, true
	}

	if strings.TrimSpace(string(body)) == "" {
		return EmptyJSONReply, true
	}
	var data any
	if err := sonic.Unmarshal(body, &data); err != nil {
		return UnparsableReply, true
	}

	switch v := data.(type) {
	case string:
		if v != "" {
			return v, false
		}
	case map[string]any:
		for _, key := range replyKeys {
			if s, ok := v[key].(string); ok && s != "" {
				return s, false
			}
		}
	}
	return NoAnswerReply, true
}

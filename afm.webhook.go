package afm

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"hash"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WebhookHandlerConfig configures event handling for a webhook interface.
type WebhookHandlerConfig struct {
	// VerifySignatures enables HMAC verification of inbound bodies when the
	// subscription declares a secret. Default: true (set via
	// NewWebhookHandler, not the zero value).
	VerifySignatures bool

	// Logger for event-level diagnostics. Nil disables logging.
	Logger *zap.Logger
}

// WebhookHandler turns inbound pub/sub event notifications into agent runs.
// The prompt template is compiled once at construction; each HandleEvent
// call is an independent unit of work, safe to run concurrently with others.
type WebhookHandler struct {
	iface            *Webhook
	template         *CompiledTemplate
	runner           AgentRunner
	verifySignatures bool
	logger           *zap.Logger
}

// NewWebhookHandler builds a handler for a classified webhook interface.
// The interface's prompt, when present, is compiled here; compilation never
// fails. The runner may be nil for handlers that only evaluate prompts.
func NewWebhookHandler(iface *Webhook, runner AgentRunner, cfg WebhookHandlerConfig) *WebhookHandler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var template *CompiledTemplate
	if iface.Prompt != "" {
		template = CompileTemplateWithLogger(iface.Prompt, logger)
	}

	return &WebhookHandler{
		iface:            iface,
		template:         template,
		runner:           runner,
		verifySignatures: cfg.VerifySignatures,
		logger:           logger,
	}
}

// Path returns the HTTP path the external listener should attach this
// handler to.
func (h *WebhookHandler) Path() string {
	return h.iface.Exposure.HTTP.Path
}

// Template returns the compiled prompt template, or nil when the interface
// declares none and raw payload passthrough applies.
func (h *WebhookHandler) Template() *CompiledTemplate {
	return h.template
}

// BuildPrompt produces the agent input string for one event without running
// the agent: the evaluated template, or the indented payload when no prompt
// template is configured.
func (h *WebhookHandler) BuildPrompt(body []byte, headers Headers) (string, error) {
	if !json.Valid(body) {
		return "", NewInvalidPayloadError(nil)
	}

	if h.template == nil {
		var buf bytes.Buffer
		if err := json.Indent(&buf, body, "", "  "); err != nil {
			return "", NewInvalidPayloadError(err)
		}
		return buf.String(), nil
	}

	return h.template.Evaluate(json.RawMessage(body), headers), nil
}

// HandleEvent verifies, evaluates, and executes one inbound notification.
// Agent execution failures are logged and passed through as-is; retry and
// acknowledgement policy belongs to the external pub/sub layer.
func (h *WebhookHandler) HandleEvent(ctx context.Context, body []byte, headers Headers) (string, error) {
	if h.verifySignatures && h.iface.Subscription.Secret != "" {
		signature := firstHeaderValue(headers, SignatureHeaderSHA256)
		if signature == "" {
			signature = firstHeaderValue(headers, SignatureHeaderLegacy)
		}
		if !VerifySignature(body, signature, h.iface.Subscription.Secret) {
			h.logger.Warn(LogMsgSignatureRejected)
			return "", NewInvalidSignatureError()
		}
	}

	prompt, err := h.BuildPrompt(body, headers)
	if err != nil {
		return "", err
	}

	if h.runner == nil {
		return "", NewInterfaceConfigError(ErrMsgNoRunner)
	}

	sessionID := uuid.NewString()
	h.logger.Info(LogMsgEventReceived,
		zap.String(LogFieldPath, h.Path()),
		zap.String(LogFieldSession, sessionID))

	result, err := h.runner.Run(ctx, prompt, sessionID)
	if err != nil {
		h.logger.Error(LogMsgAgentRunFailed,
			zap.String(LogFieldSession, sessionID),
			zap.Error(err))
		return "", err
	}
	return result, nil
}

func firstHeaderValue(headers Headers, name string) string {
	values, ok := headers.lookup(name)
	if !ok || len(values) == 0 {
		return ""
	}
	return values[0]
}

// VerifySignature checks an HMAC signature header (format
// "algorithm=hexdigest", algorithm optional, sha256 default) against the raw
// body using a constant-time comparison.
func VerifySignature(body []byte, signatureHeader, secret string) bool {
	if signatureHeader == "" {
		return false
	}

	algorithm := SignatureAlgoSHA256
	provided := signatureHeader
	if algo, sig, found := strings.Cut(signatureHeader, "="); found {
		switch strings.ToLower(algo) {
		case SignatureAlgoSHA1, SignatureAlgoSHA256, SignatureAlgoSHA512:
			algorithm = strings.ToLower(algo)
			provided = sig
		default:
			provided = sig
		}
	}

	var hashFunc func() hash.Hash
	switch algorithm {
	case SignatureAlgoSHA1:
		hashFunc = sha1.New
	case SignatureAlgoSHA512:
		hashFunc = sha512.New
	default:
		hashFunc = sha256.New
	}

	mac := hmac.New(hashFunc, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(strings.ToLower(provided)))
}

// WebSubSubscriber manages a WebSub (hub/topic/callback) subscription for a
// webhook interface. Subscription requests are plain form POSTs to the hub;
// the hub's later GET verification is answered through VerifyChallenge.
type WebSubSubscriber struct {
	hub          string
	topic        string
	callback     string
	secret       string
	leaseSeconds int
	client       *http.Client
	logger       *zap.Logger

	mu       sync.Mutex
	verified bool
}

// NewWebSubSubscriber builds a subscriber from a webhook subscription
// descriptor.
func NewWebSubSubscriber(sub Subscription, logger *zap.Logger) *WebSubSubscriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSubSubscriber{
		hub:          sub.Hub,
		topic:        sub.Topic,
		callback:     sub.Callback,
		secret:       sub.Secret,
		leaseSeconds: WebSubDefaultLease,
		client:       http.DefaultClient,
		logger:       logger,
	}
}

// Verified reports whether the hub has confirmed the subscription.
func (s *WebSubSubscriber) Verified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verified
}

// Subscribe sends the subscription request to the hub. A 2xx status means
// the request was accepted; confirmation arrives via VerifyChallenge.
func (s *WebSubSubscriber) Subscribe(ctx context.Context) error {
	data := url.Values{
		"hub.mode":          {WebSubModeSubscribe},
		"hub.topic":         {s.topic},
		"hub.callback":      {s.callback},
		"hub.lease_seconds": {strconv.Itoa(s.leaseSeconds)},
	}
	if s.secret != "" {
		data.Set("hub.secret", s.secret)
	}
	return s.post(ctx, WebSubModeSubscribe, data)
}

// Unsubscribe sends the unsubscription request to the hub.
func (s *WebSubSubscriber) Unsubscribe(ctx context.Context) error {
	data := url.Values{
		"hub.mode":     {WebSubModeUnsubscribe},
		"hub.topic":    {s.topic},
		"hub.callback": {s.callback},
	}
	return s.post(ctx, WebSubModeUnsubscribe, data)
}

func (s *WebSubSubscriber) post(ctx context.Context, mode string, data url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.hub,
		strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error(LogMsgWebSubRequestFailed,
			zap.String(LogFieldMode, mode),
			zap.String(LogFieldHub, s.hub),
			zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted, http.StatusNoContent:
		s.logger.Info(LogMsgWebSubRequestSent,
			zap.String(LogFieldMode, mode),
			zap.String(LogFieldHub, s.hub),
			zap.String(LogFieldTopic, s.topic))
		return nil
	default:
		s.logger.Error(LogMsgWebSubRequestFailed,
			zap.String(LogFieldMode, mode),
			zap.Int(LogFieldStatus, resp.StatusCode))
		return NewWebSubRejectedError(resp.StatusCode)
	}
}

// VerifyChallenge answers a hub verification request. It returns the
// challenge to echo back and whether the verification was accepted; a topic
// mismatch or unknown mode is rejected.
func (s *WebSubSubscriber) VerifyChallenge(mode, topic, challenge string) (string, bool) {
	if topic != s.topic {
		s.logger.Warn(LogMsgWebSubTopicMismatch,
			zap.String(LogFieldTopic, topic))
		return "", false
	}

	switch mode {
	case WebSubModeSubscribe:
		s.mu.Lock()
		s.verified = true
		s.mu.Unlock()
		s.logger.Info(LogMsgWebSubVerified, zap.String(LogFieldTopic, topic))
		return challenge, true
	case WebSubModeUnsubscribe:
		s.mu.Lock()
		s.verified = false
		s.mu.Unlock()
		return challenge, true
	default:
		return "", false
	}
}

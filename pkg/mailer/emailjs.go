package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/skillhub-io/skillhub-api/pkg/config"
	appErrors "github.com/skillhub-io/skillhub-api/pkg/errors"
)

// Channel names for the supported notification purposes.
const (
	ChannelDirector = "director"
	ChannelAccept   = "accept"
	ChannelDecline  = "decline"
	ChannelReset    = "reset"
)

// Client sends transactional emails through an EmailJS-compatible HTTP API.
// Every notification purpose maps to a channel with its own service,
// template and public key.
type Client struct {
	http        *resty.Client
	endpoint    string
	frontendURL string
	channels    map[string]config.EmailChannel
	logger      *zap.Logger
}

type sendPayload struct {
	ServiceID      string                 `json:"service_id"`
	TemplateID     string                 `json:"template_id"`
	UserID         string                 `json:"user_id"`
	TemplateParams map[string]interface{} `json:"template_params"`
}

// NewClient builds a mail client from the email configuration.
func NewClient(cfg config.EmailConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	http := resty.New().
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "Mozilla/5.0").
		SetHeader("Origin", cfg.FrontendURL).
		SetHeader("Referer", cfg.FrontendURL)

	return &Client{
		http:        http,
		endpoint:    cfg.Endpoint,
		frontendURL: cfg.FrontendURL,
		channels: map[string]config.EmailChannel{
			ChannelDirector: cfg.Director,
			ChannelAccept:   cfg.Accept,
			ChannelDecline:  cfg.Decline,
			ChannelReset:    cfg.Reset,
		},
		logger: logger,
	}
}

// Send dispatches one templated email on the named channel.
// An incomplete channel configuration is a typed error so callers can
// distinguish misconfiguration from transport failure.
func (c *Client) Send(ctx context.Context, channel string, params map[string]interface{}) error {
	ch, ok := c.channels[channel]
	if !ok || ch.ServiceID == "" || ch.TemplateID == "" || ch.PublicKey == "" {
		return appErrors.Clone(appErrors.ErrEmailNotConfigured, fmt.Sprintf("email channel %q is not configured", channel))
	}

	payload := sendPayload{
		ServiceID:      ch.ServiceID,
		TemplateID:     ch.TemplateID,
		UserID:         ch.PublicKey,
		TemplateParams: params,
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		Post(c.endpoint)
	if err != nil {
		return fmt.Errorf("send email on channel %s: %w", channel, err)
	}
	if resp.IsError() {
		return fmt.Errorf("send email on channel %s: status %d: %s", channel, resp.StatusCode(), resp.String())
	}

	c.logger.Debug("email sent",
		zap.String("channel", channel),
		zap.Int("status", resp.StatusCode()),
	)
	return nil
}

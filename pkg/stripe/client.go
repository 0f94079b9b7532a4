package stripe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v84"

	"github.com/pawwelfare/shelter-backend/pkg/config"
	"github.com/pawwelfare/shelter-backend/pkg/logger"
)

// Mode selects which Stripe environment the process talks to. The key prefix
// must agree with the mode so a misconfigured deploy fails at startup rather
// than charging real cards from a test environment.
type Mode string

const (
	ModeTest Mode = "test"
	ModeLive Mode = "live"
)

var keyPrefixes = map[Mode][]string{
	ModeTest: {"sk_test", "rk_test"},
	ModeLive: {"sk_live", "rk_live"},
}

var (
	errAPIKeyRequired = errors.New("stripe api key is required")
	errSecretRequired = errors.New("stripe webhook secret is required")
)

// Client carries the validated Stripe configuration. Payment calls go through
// the SDK's package-level API, which NewClient seeds with the secret key.
type Client struct {
	mode          Mode
	signingSecret string
}

// NewClient validates the configured Stripe credentials and installs the API
// key globally.
func NewClient(ctx context.Context, cfg config.StripeConfig, logg *logger.Logger) (*Client, error) {
	mode, err := parseMode(cfg.Environment())
	if err != nil {
		return nil, err
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}
	if !modeMatchesKey(mode, apiKey) {
		return nil, fmt.Errorf("stripe %s mode requires a key with one of the prefixes %v", mode, keyPrefixes[mode])
	}

	signingSecret := strings.TrimSpace(cfg.Secret)
	if signingSecret == "" {
		return nil, errSecretRequired
	}

	stripe.Key = apiKey

	if logg != nil {
		logg.Info(ctx, fmt.Sprintf("stripe client initialized in %s mode", mode))
	}

	return &Client{mode: mode, signingSecret: signingSecret}, nil
}

// Mode reports which Stripe environment the client was validated against.
func (c *Client) Mode() Mode {
	if c == nil {
		return ""
	}
	return c.mode
}

// SigningSecret returns the webhook signing secret used to verify
// Stripe-Signature headers.
func (c *Client) SigningSecret() string {
	if c == nil {
		return ""
	}
	return c.signingSecret
}

func parseMode(raw string) (Mode, error) {
	switch Mode(strings.TrimSpace(strings.ToLower(raw))) {
	case "", ModeTest:
		return ModeTest, nil
	case ModeLive:
		return ModeLive, nil
	default:
		return "", fmt.Errorf("stripe environment must be %q or %q", ModeTest, ModeLive)
	}
}

func modeMatchesKey(mode Mode, key string) bool {
	for _, prefix := range keyPrefixes[mode] {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"techevents/internal/domain"
)

const (
	ProviderSES  = "ses"
	ProviderNoop = "noop"

	charsetUTF8 = "UTF-8"
)

var (
	errNoRecipient = errors.New("email has no recipient")
	errNoBody      = errors.New("email has neither an html nor a text body")
)

// SESConfig holds configuration for AWS SES.
type SESConfig struct {
	Region             string
	AccessKeyID        string
	SecretAccessKey    string
	ConfigurationSet   string
	InsecureSkipVerify bool
}

// MailerConfig selects the delivery provider and the sender identity.
type MailerConfig struct {
	Provider    string
	FromAddress string
	FromName    string
	SES         SESConfig
}

// sesClient is the subset of *ses.Client the mailer uses.
type sesClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// NewMailer returns the SES mailer for provider "ses". Every other provider,
// including an empty one, gets a mailer that only logs.
func NewMailer(config MailerConfig, logger *slog.Logger) domain.Mailer {
	switch strings.ToLower(config.Provider) {
	case ProviderSES:
		return &sesMailer{
			client:           newSESClient(config.SES, logger),
			source:           senderAddress(config.FromName, config.FromAddress),
			configurationSet: config.SES.ConfigurationSet,
			logger:           logger,
		}
	case ProviderNoop, "":
	default:
		logger.Warn("unknown email provider, confirmations will not be delivered", "provider", config.Provider)
	}
	return &noopMailer{logger: logger}
}

func newSESClient(cfg SESConfig, logger *slog.Logger) *ses.Client {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}
	if cfg.InsecureSkipVerify {
		logger.Warn("TLS certificate verification is disabled for SES, use only in development")
		tlsConfig.InsecureSkipVerify = true
	}

	return ses.NewFromConfig(aws.Config{
		Region: cfg.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
		HTTPClient: &http.Client{Transport: &http.Transport{TLSClientConfig: tlsConfig}},
	})
}

// senderAddress formats the SES Source field. Angle brackets and quotes are
// dropped from the display name so it cannot break the address.
func senderAddress(name, address string) string {
	name = strings.TrimSpace(strings.NewReplacer("<", "", ">", "", `"`, "").Replace(name))
	if name == "" {
		return address
	}
	return fmt.Sprintf("%s <%s>", name, address)
}

func utf8Content(s string) *types.Content {
	if s == "" {
		return nil
	}
	return &types.Content{Data: aws.String(s), Charset: aws.String(charsetUTF8)}
}

type sesMailer struct {
	client           sesClient
	source           string
	configurationSet string
	logger           *slog.Logger
}

func (s *sesMailer) Send(ctx context.Context, to, subject, html, text string) error {
	if strings.TrimSpace(to) == "" {
		return errNoRecipient
	}
	if html == "" && text == "" {
		return errNoBody
	}

	input := &ses.SendEmailInput{
		Source:      aws.String(s.source),
		Destination: &types.Destination{ToAddresses: []string{to}},
		Message: &types.Message{
			Subject: utf8Content(subject),
			Body:    &types.Body{Html: utf8Content(html), Text: utf8Content(text)},
		},
	}
	if s.configurationSet != "" {
		input.ConfigurationSetName = aws.String(s.configurationSet)
	}

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	s.logger.InfoContext(ctx, "email sent", "provider", ProviderSES, "message_id", aws.ToString(out.MessageId))
	return nil
}

type noopMailer struct {
	logger *slog.Logger
}

func (n *noopMailer) Send(ctx context.Context, to, subject, html, text string) error {
	n.logger.DebugContext(ctx, "email not delivered, noop provider", "subject", subject)
	return nil
}

// Package aws wraps the AWS SDK v2 clients the notifier depends on: SES
// carries outbound notification email, SNS carries operator alerts. Each
// wrapper exposes the single call its consumer needs so the rest of the code
// never imports the SDK client surface directly.
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
)

// SESClient sends notification email. The sink layer consumes it through its
// own SESService interface, so tests never touch this type.
type SESClient struct {
	client *ses.Client
}

// NewSESClient builds an SES client for region from the ambient credential
// chain (env, shared config, instance role).
func NewSESClient(ctx context.Context, region string) (*SESClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config for ses: %w", err)
	}
	return &SESClient{client: ses.NewFromConfig(cfg)}, nil
}

func (s *SESClient) SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	return s.client.SendEmail(ctx, input)
}

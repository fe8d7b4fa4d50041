package utils

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESMailer implements services.Mailer over AWS SES.
type SESMailer struct {
	client *ses.Client
	from   string
}

func NewSESMailer(region, from string) (*SESMailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config for SES: %w", err)
	}
	return &SESMailer{client: ses.NewFromConfig(cfg), from: from}, nil
}

func (m *SESMailer) send(to, subject, body string) error {
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(m.from),
	}
	if _, err := m.client.SendEmail(context.TODO(), input); err != nil {
		return fmt.Errorf("email send failed: %w", err)
	}
	return nil
}

func (m *SESMailer) SendVerificationEmail(to, code string) error {
	subject := "Verify your email"
	body := fmt.Sprintf("Your verification code is: %s\n\nEnter it in the app to activate your account.", code)
	return m.send(to, subject, body)
}

func (m *SESMailer) SendResetEmail(to, code string) error {
	subject := "Password Reset Code"
	body := fmt.Sprintf("Your password reset code is: %s\n\nUse this in the app to set a new password.", code)
	return m.send(to, subject, body)
}

package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService handles email sending via AWS SES (SESv2 API)
type EmailService struct {
	sesClient *sesv2.Client
	fromEmail string
	baseURL   string
}

// NewEmailService creates a new email service instance using AWS SDK (role-based)
func NewEmailService(cfg aws.Config) *EmailService {
	region := cfg.Region
	if region == "" {
		region = os.Getenv("SES_AWS_REGION")
		if region == "" {
			if os.Getenv("AWS_DEFAULT_REGION") != "" {
				region = os.Getenv("AWS_DEFAULT_REGION")
			} else {
				region = "eu-central-1"
			}
		}
	}
	cfg.Region = region
	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = "https://app.buildvault.io"
	}
	return &EmailService{
		sesClient: sesv2.NewFromConfig(cfg),
		fromEmail: os.Getenv("SES_FROM_EMAIL"),
		baseURL:   baseURL,
	}
}

// SendTeamInvitation emails an invitation link to a prospective team member
func (e *EmailService) SendTeamInvitation(ctx context.Context, toEmail, companyName, role, token string, expiresAt time.Time) error {
	subject := fmt.Sprintf("BuildVault - You've been invited to join %s", companyName)
	link := fmt.Sprintf("%s/accept-invitation?token=%s", e.baseURL, token)
	body := e.renderLayout(
		"You're invited",
		fmt.Sprintf(`<p>You have been invited to join <strong>%s</strong> on BuildVault as <strong>%s</strong>.</p>
			<p style="text-align:center"><a class="button" href="%s">Accept Invitation</a></p>
			<p>This invitation expires on %s.</p>`,
			companyName, role, link, expiresAt.UTC().Format("2 January 2006")))
	return e.sendEmail(ctx, toEmail, subject, body)
}

// SendContactConfirmation acknowledges a contact-form submission
func (e *EmailService) SendContactConfirmation(ctx context.Context, toEmail, name string) error {
	subject := "BuildVault - We received your message"
	body := e.renderLayout(
		"Thanks for reaching out",
		fmt.Sprintf(`<p>Hi %s,</p>
			<p>We received your message and our team will get back to you within one business day.</p>`, name))
	return e.sendEmail(ctx, toEmail, subject, body)
}

// SendWorkflowNotification tells a report author about an approval decision
func (e *EmailService) SendWorkflowNotification(ctx context.Context, toEmail, reportNumber, decision string, note *string) error {
	subject := fmt.Sprintf("BuildVault - Report %s %s", reportNumber, decision)
	extra := ""
	if note != nil && *note != "" {
		extra = fmt.Sprintf("<p>Reviewer note: %s</p>", *note)
	}
	body := e.renderLayout(
		fmt.Sprintf("Report %s", decision),
		fmt.Sprintf(`<p>Test report <strong>%s</strong> has been <strong>%s</strong>.</p>%s
			<p><a class="button" href="%s/reports">View Reports</a></p>`,
			reportNumber, decision, extra, e.baseURL))
	return e.sendEmail(ctx, toEmail, subject, body)
}

// sendEmail sends an email via AWS SESv2 using the instance role
func (e *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody string) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(e.fromEmail),
		Destination:      &sestypes.Destination{ToAddresses: []string{toEmail}},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{Data: aws.String(subject)},
				Body:    &sestypes.Body{Html: &sestypes.Content{Data: aws.String(htmlBody)}},
			},
		},
	}
	if _, err := e.sesClient.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// renderLayout wraps content in the shared HTML email shell
func (e *EmailService) renderLayout(heading, content string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>BuildVault</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f5f5f5;
        }
        .container {
            background-color: white;
            border-radius: 8px;
            padding: 40px;
            box-shadow: 0 2px 10px rgba(0,0,0,0.1);
        }
        .header {
            text-align: center;
            margin-bottom: 30px;
        }
        .logo {
            font-size: 28px;
            font-weight: bold;
            color: #1a73e8;
        }
        .button {
            display: inline-block;
            background-color: #1a73e8;
            color: white !important;
            padding: 12px 28px;
            border-radius: 6px;
            text-decoration: none;
            font-weight: 600;
        }
        .footer {
            margin-top: 30px;
            font-size: 12px;
            color: #999;
            text-align: center;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <div class="logo">BuildVault</div>
            <h2>%s</h2>
        </div>
        %s
        <div class="footer">
            <p>BuildVault - Construction Materials Testing</p>
            <p>If you were not expecting this email you can safely ignore it.</p>
        </div>
    </div>
</body>
</html>`, heading, content)
}

package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService sends lesson notifications via Amazon SES. Completion
// reports go to a single configured address, typically a parent or teacher.
type EmailService struct {
	client      *sesv2.Client
	fromEmail   string
	fromName    string
	reportEmail string
	enabled     bool
	debug       bool
}

// NewEmailService creates a new email service
func NewEmailService(awsRegion, fromEmail, fromName, reportEmail string, debug bool) (*EmailService, error) {
	// If fromEmail is empty, create a disabled service
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{
			enabled: false,
			debug:   debug,
		}, nil
	}

	if debug {
		log.Printf("[DEBUG] Initializing email service with AWS SES")
		log.Printf("[DEBUG] AWS Region: %s", awsRegion)
		log.Printf("[DEBUG] From Email: %s", fromEmail)
	}

	// Load AWS configuration
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := sesv2.NewFromConfig(cfg)
	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:      client,
		fromEmail:   fromEmail,
		fromName:    fromName,
		reportEmail: reportEmail,
		enabled:     true,
		debug:       debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendLessonComplete sends a celebration email when a kid finishes a lesson.
func (s *EmailService) SendLessonComplete(ctx context.Context, kidID int64, lessonTitle string, reward int) error {
	if s.debug {
		log.Printf("[DEBUG] SendLessonComplete called: kid=%d, lesson=%s, reward=%d", kidID, lessonTitle, reward)
	}

	if !s.enabled {
		log.Printf("Skipping email send (service disabled): lesson complete for kid %d", kidID)
		return nil
	}

	if s.reportEmail == "" {
		log.Printf("No report address configured, skipping lesson complete email for kid %d", kidID)
		return nil
	}

	subject := fmt.Sprintf("Lesson complete: %q", lessonTitle)
	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #4a90e2; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.reward { font-size: 32px; text-align: center; color: #4a90e2; font-weight: bold; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Lesson Complete!</h1>
		</div>
		<div class="content">
			<p>Kid #%d just completed the lesson <strong>%s</strong>.</p>
			<p class="reward">%d points earned</p>
			<p>Keep up the great work!</p>
		</div>
		<div class="footer">
			<p>This is an automated email from LessonClash. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, kidID, lessonTitle, reward)

	textBody := fmt.Sprintf(`Kid #%d just completed the lesson "%s" and earned %d points.

Keep up the great work!

---
This is an automated email from LessonClash. Please do not reply.
`, kidID, lessonTitle, reward)

	return s.sendEmail(ctx, s.reportEmail, subject, htmlBody, textBody)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if s.debug {
		log.Printf("[DEBUG] Calling SES SendEmail API: to=%s, subject=%s", toEmail, subject)
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] Message ID: %s", *result.MessageId)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}

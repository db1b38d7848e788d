// internal/notify/notifier.go

// Package notify surfaces high-value opportunities to operators over SNS and
// SES after a pipeline run.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	apperrors "opportunity-engine/internal/common/errors"
	"opportunity-engine/internal/common/logger"
	"opportunity-engine/internal/common/metrics"
	"opportunity-engine/internal/models"
)

// Publisher is the SNS surface the notifier needs.
type Publisher interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// EmailSender is the SES surface the notifier needs.
type EmailSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// Config selects the alert channels and the bar an opportunity must clear.
type Config struct {
	MinROI        float64
	MinConfidence float64
	TopicARN      string
	FromEmail     string
	ToEmails      []string
}

// Notifier sends alerts for scored opportunities whose ROI and confidence
// clear the configured thresholds. Either channel may be nil.
type Notifier struct {
	config    Config
	publisher Publisher
	sender    EmailSender
	logger    logger.Logger
}

func New(config Config, publisher Publisher, sender EmailSender, log logger.Logger) *Notifier {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Notifier{
		config:    config,
		publisher: publisher,
		sender:    sender,
		logger:    log.WithFields(map[string]interface{}{"component": "notifier"}),
	}
}

// AlertHighValue inspects a generated result and, when any opportunity clears
// the thresholds, publishes a summary to the configured channels. A result
// with nothing above the bar is a no-op, not an error.
func (n *Notifier) AlertHighValue(ctx context.Context, result *models.GeneratedResult) error {
	highValue := n.filter(result)
	if len(highValue) == 0 {
		return nil
	}

	subject := fmt.Sprintf("%d high-value automation opportunities for %s", len(highValue), result.CompanyID)
	body := n.summarize(result.CompanyID, highValue)

	if n.publisher != nil && n.config.TopicARN != "" {
		_, err := n.publisher.Publish(ctx, &sns.PublishInput{
			TopicArn: aws.String(n.config.TopicARN),
			Subject:  aws.String(subject),
			Message:  aws.String(body),
		})
		if err != nil {
			return apperrors.NewNotificationSendFailedError("sns", err)
		}
		metrics.AlertsSent.WithLabelValues("sns").Inc()
	}

	if n.sender != nil && n.config.FromEmail != "" && len(n.config.ToEmails) > 0 {
		_, err := n.sender.SendEmail(ctx, &ses.SendEmailInput{
			Source: aws.String(n.config.FromEmail),
			Destination: &sestypes.Destination{
				ToAddresses: n.config.ToEmails,
			},
			Message: &sestypes.Message{
				Subject: &sestypes.Content{Data: aws.String(subject)},
				Body: &sestypes.Body{
					Text: &sestypes.Content{Data: aws.String(body)},
				},
			},
		})
		if err != nil {
			return apperrors.NewNotificationSendFailedError("ses", err)
		}
		metrics.AlertsSent.WithLabelValues("ses").Inc()
	}

	n.logger.Info("high-value opportunity alert sent", map[string]interface{}{
		"companyId": result.CompanyID,
		"count":     len(highValue),
	})
	return nil
}

func (n *Notifier) filter(result *models.GeneratedResult) []models.ScoredOpportunity {
	var out []models.ScoredOpportunity
	for _, so := range result.Scored {
		if so.Score.ROI >= n.config.MinROI && so.Score.Confidence >= n.config.MinConfidence {
			out = append(out, so)
		}
	}
	return out
}

func (n *Notifier) summarize(companyID string, scored []models.ScoredOpportunity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "High-value automation opportunities for company %s:\n\n", companyID)
	for _, so := range scored {
		fmt.Fprintf(&b, "- [%s] %s (ROI %.1f, confidence %.0f%%)\n",
			so.Opportunity.Category, so.Opportunity.Title, so.Score.ROI, so.Score.Confidence*100)
	}
	return b.String()
}

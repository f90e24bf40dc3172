package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"github.com/sameera474/buildvault-backend/internal/logging"
)

// SmsService delivers report decision notices over AWS SNS. SMS is a
// secondary channel: it only fires when the author has a phone number
// on their profile, and the caller treats failures as non-fatal.
type SmsService struct {
	client *sns.Client
}

// NewSmsService builds the SNS client from the loaded AWS config
func NewSmsService(cfg aws.Config) *SmsService {
	return &SmsService{client: sns.NewFromConfig(cfg)}
}

// SendSMS publishes one message to a phone number in E.164 form.
// Transactional type keeps delivery out of promotional throttling.
func (s *SmsService) SendSMS(ctx context.Context, phoneNumber, message string) error {
	input := &sns.PublishInput{
		Message:     aws.String(message),
		PhoneNumber: aws.String(phoneNumber),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"AWS.SNS.SMS.SMSType": {
				DataType:    aws.String("String"),
				StringValue: aws.String("Transactional"),
			},
		},
	}

	result, err := s.client.Publish(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to publish sms: %w", err)
	}

	logging.LogKV("info", "sms sent", map[string]interface{}{
		"message_id": aws.ToString(result.MessageId),
	})
	return nil
}

// internal/common/aws/ses.go

// Package aws assembles request inputs for the AWS messaging services
// used to deliver risk alerts.
package aws

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// BuildAlertEmailInput assembles the SendEmailInput for a plain-text risk alert.
func BuildAlertEmailInput(from, to, subject, body string) *ses.SendEmailInput {
	return &ses.SendEmailInput{
		Source: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
	}
}

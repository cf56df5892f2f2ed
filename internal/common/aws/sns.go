// internal/common/aws/sns.go
package aws

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// BuildAlertPublishInput assembles the PublishInput for a direct-to-phone risk alert.
func BuildAlertPublishInput(phoneNumber, message string) *sns.PublishInput {
	return &sns.PublishInput{
		PhoneNumber: aws.String(phoneNumber),
		Message:     aws.String(message),
	}
}

// Package alert gives operators visibility into dropped dispatches. The
// no-retry policy means a failed notification disappears; the alert trail is
// what makes that loss observable.
package alert

import (
	"context"
	"fmt"
	"time"

	"fireline-notifier/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// Publisher is the slice of the SNS API the notifier uses.
type Publisher interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

type Notifier struct {
	publisher Publisher
	topicARN  string
	logger    logger.Logger
}

func NewNotifier(publisher Publisher, topicARN string, log logger.Logger) *Notifier {
	return &Notifier{
		publisher: publisher,
		topicARN:  topicARN,
		logger:    log,
	}
}

// DispatchDropped reports one dropped outbound notification. It runs
// asynchronously so a slow alert channel never blocks event handling; the
// alert itself is best-effort.
func (n *Notifier) DispatchDropped(projectID int64, newStatus int, channel, reason string) {
	if n == nil || n.publisher == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		message := fmt.Sprintf(
			"Notification dropped\nproject: %d\nstatus: %d\nchannel: %s\nreason: %s\ntime: %s",
			projectID, newStatus, channel, reason, time.Now().UTC().Format(time.RFC3339),
		)

		_, err := n.publisher.Publish(ctx, &sns.PublishInput{
			TopicArn: aws.String(n.topicARN),
			Subject:  aws.String("fireline-notifier: dispatch dropped"),
			Message:  aws.String(message),
		})
		if err != nil {
			n.logger.Error("operator alert publish failed", map[string]interface{}{
				"error":     err,
				"projectId": projectID,
			})
		}
	}()
}

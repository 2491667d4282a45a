package alert

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fireline-notifier/internal/common/logger"
)

type capturePublisher struct {
	mu     sync.Mutex
	inputs []*sns.PublishInput
}

func (p *capturePublisher) Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error) {
	p.mu.Lock()
	p.inputs = append(p.inputs, input)
	p.mu.Unlock()
	return &sns.PublishOutput{}, nil
}

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.inputs)
}

func TestDispatchDropped(t *testing.T) {
	pub := &capturePublisher{}
	n := NewNotifier(pub, "arn:aws:sns:us-east-1:000000000000:alerts", logger.NewTestLogger(t))

	n.DispatchDropped(4211, 40, "email", "DISPATCH_TIMEOUT")

	require.Eventually(t, func() bool {
		return pub.count() == 1
	}, 2*time.Second, 10*time.Millisecond)

	pub.mu.Lock()
	input := pub.inputs[0]
	pub.mu.Unlock()

	assert.Equal(t, "arn:aws:sns:us-east-1:000000000000:alerts", *input.TopicArn)
	assert.Contains(t, *input.Message, "project: 4211")
	assert.Contains(t, *input.Message, "channel: email")
	assert.Contains(t, *input.Message, "reason: DISPATCH_TIMEOUT")
}

func TestDispatchDroppedNilSafe(t *testing.T) {
	var n *Notifier
	n.DispatchDropped(1, 10, "email", "DISPATCH_TIMEOUT")

	n = NewNotifier(nil, "", logger.NewNoOpLogger())
	n.DispatchDropped(1, 10, "email", "DISPATCH_TIMEOUT")
}

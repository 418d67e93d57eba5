package backend

import (
	"context"

	"github.com/soyeahso/safetalk/internal/domain"
)

// Classify scores the message's raw text. It never returns an error: any
// failure, including the detect timeout, yields a Failed result carrying
// domain.DetectionUnavailable.
func (c *Client) Classify(ctx context.Context, msg domain.InboundMessage) domain.ClassificationResult {
	det, err := c.Detect(ctx, msg.RawText())
	if err != nil {
		return domain.Failed(msg.ID)
	}
	return domain.ClassificationResult{
		MessageID:   msg.ID,
		Status:      domain.StatusDone,
		IsHate:      det.IsHate,
		Explanation: det.Explanation,
	}
}

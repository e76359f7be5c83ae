package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/andresuchdata/retail-backoffice/internal/domain"
)

// NotificationClient posts messages to the notification (messaging group) service.
type NotificationClient struct {
	baseClient
}

func NewNotificationClient(baseURL string, timeout time.Duration) (*NotificationClient, error) {
	base, err := newBaseClient(baseURL, timeout)
	if err != nil {
		return nil, fmt.Errorf("notification client: %w", err)
	}
	return &NotificationClient{baseClient: base}, nil
}

func (c *NotificationClient) Send(ctx context.Context, n domain.Notification) error {
	if n.GroupIDs == nil {
		n.GroupIDs = []string{}
	}
	_, err := c.do(ctx, http.MethodPost, "/notifications", nil, n)
	return err
}

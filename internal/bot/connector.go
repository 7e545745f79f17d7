package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Connector posts reply activities back to the Bot Framework service URL
// carried on the inbound activity.
type Connector struct {
	client *resty.Client
}

func NewConnector() *Connector {
	client := resty.New().
		SetTimeout(15 * time.Second).
		SetHeader("Content-Type", "application/json")
	return &Connector{client: client}
}

func (c *Connector) SendReply(ctx context.Context, reply Activity) error {
	if reply.ServiceURL == "" {
		return fmt.Errorf("activity has no service url")
	}

	url := fmt.Sprintf("%s/v3/conversations/%s/activities/%s", reply.ServiceURL, reply.Conversation.ID, reply.ReplyToID)

	res, err := c.client.R().
		SetContext(ctx).
		SetBody(reply).
		Post(url)
	if err != nil {
		return fmt.Errorf("error posting reply activity: %w", err)
	}
	if res.IsError() {
		return fmt.Errorf("reply activity rejected: %s: %s", res.Status(), res.String())
	}

	return nil
}

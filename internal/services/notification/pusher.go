package notification

import (
	"context"
	"fmt"

	"ofo/internal/config"
	"ofo/internal/models"

	"github.com/pusher/pusher-http-go/v5"
)

type triggerer interface {
	Trigger(channel string, eventName string, data interface{}) error
}

// PusherPublisher emits a balance event on the user's channel.
type PusherPublisher struct {
	client triggerer
}

func NewPusherPublisher(cfg config.PusherConfig) *PusherPublisher {
	return &PusherPublisher{
		client: &pusher.Client{
			AppID:   cfg.AppID,
			Key:     cfg.Key,
			Secret:  cfg.Secret,
			Cluster: cfg.Cluster,
			Secure:  true,
		},
	}
}

func BalanceChannel(userID string) string {
	return "balance-" + userID
}

func (p *PusherPublisher) PublishBalance(_ context.Context, account models.Account, reason string) error {
	data := map[string]interface{}{
		"user_id": account.UserID,
		"cash":    account.Cash,
		"point":   account.Point,
		"reason":  reason,
	}
	if err := p.client.Trigger(BalanceChannel(account.UserID), "balance-event", data); err != nil {
		return fmt.Errorf("failed to trigger pusher event: %w", err)
	}
	return nil
}

// Package notification delivers post-commit side effects: push messages
// to the receiver's devices and realtime balance events. Delivery is best
// effort; failures are logged and counted, never returned to the caller.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"ofo/internal/lib/logger/sl"
	"ofo/internal/models"
)

const (
	ChannelPush    = "push"
	ChannelBalance = "balance"

	TitleCashReceived = "OFO Cash Received"
)

// Notifier sends one push message to a device.
type Notifier interface {
	Notify(ctx context.Context, deviceRef, title, message string) error
}

// BalancePublisher pushes balance changes to connected clients.
type BalancePublisher interface {
	PublishBalance(ctx context.Context, account models.Account, reason string) error
}

type DeviceLister interface {
	ListDevices(ctx context.Context, userID string) ([]models.Device, error)
}

type FailureRecorder interface {
	RecordNotificationFailure(channel string)
}

type Service struct {
	push     Notifier
	balance  BalancePublisher
	devices  DeviceLister
	failures FailureRecorder
	log      *slog.Logger
	timeout  time.Duration

	wg sync.WaitGroup
}

type Config struct {
	Timeout time.Duration
}

// NewService wires the dispatcher. balance and failures may be nil.
func NewService(push Notifier, balance BalancePublisher, devices DeviceLister, failures FailureRecorder, log *slog.Logger, cfg Config) *Service {
	if push == nil || devices == nil || log == nil {
		panic("notification: push, devices and log are required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Service{
		push:     push,
		balance:  balance,
		devices:  devices,
		failures: failures,
		log:      log,
		timeout:  cfg.Timeout,
	}
}

// TransferReceived tells the receiver about an incoming internal transfer
// on every registered device.
func (s *Service) TransferReceived(ctx context.Context, receiverID, senderName string, amount int64) {
	message := fmt.Sprintf("%s send you Rp %d", senderName, amount)

	s.goDetached(ctx, func(ctx context.Context) {
		const op = "notification.TransferReceived"
		log := s.log.With(sl.String("op", op), sl.String("user_id", receiverID))

		devices, err := s.devices.ListDevices(ctx, receiverID)
		if err != nil {
			s.fail(log, ChannelPush, "failed to list devices", err)
			return
		}
		for _, d := range devices {
			if err := s.push.Notify(ctx, d.PlayerID, TitleCashReceived, message); err != nil {
				s.fail(log.With(sl.String("device_id", d.DeviceID)), ChannelPush, "push notification failed", err)
			}
		}
	})
}

// BalanceChanged publishes the post-commit account snapshot.
func (s *Service) BalanceChanged(ctx context.Context, account models.Account, reason string) {
	if s.balance == nil {
		return
	}
	s.goDetached(ctx, func(ctx context.Context) {
		log := s.log.With(sl.String("op", "notification.BalanceChanged"), sl.String("user_id", account.UserID))
		if err := s.balance.PublishBalance(ctx, account, reason); err != nil {
			s.fail(log, ChannelBalance, "balance event failed", err)
		}
	})
}

// Wait blocks until all in-flight deliveries finish.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) goDetached(parent context.Context, fn func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), s.timeout)
		defer cancel()
		fn(ctx)
	}()
}

func (s *Service) fail(log *slog.Logger, channel, msg string, err error) {
	log.Error(msg, sl.String("channel", channel), sl.Err(err))
	if s.failures != nil {
		s.failures.RecordNotificationFailure(channel)
	}
}

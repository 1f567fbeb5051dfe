package purchases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"philcali.me/fridgesnap/internal/notifications"
	"philcali.me/fridgesnap/internal/purchases"
)

type FakePremium struct {
	Premium bool
}

func (f *FakePremium) SetPremium(value bool) {
	f.Premium = value
}

type FakeNotifications struct {
	Messages []notifications.Message
	Err      error
}

func (f *FakeNotifications) Publish(ctx context.Context, message notifications.Message) error {
	f.Messages = append(f.Messages, message)
	return f.Err
}

func NewTestService(notifier notifications.NotificationService) *purchases.Service {
	service := purchases.NewService(notifier, zap.NewNop())
	service.Delay = time.Millisecond
	return service
}

func TestPurchasePackage(t *testing.T) {
	ctx := context.Background()

	t.Run("grants premium and notifies", func(t *testing.T) {
		notifier := &FakeNotifications{}
		premium := &FakePremium{}
		ok, err := NewTestService(notifier).PurchasePackage(ctx, "nobody", premium, purchases.Annual)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, premium.Premium)
		require.Len(t, notifier.Messages, 1)
		assert.Equal(t, "annual", notifier.Messages[0].Attributes["plan"])
		assert.Contains(t, notifier.Messages[0].Body, "fridgesnap_annual")
	})

	t.Run("notification failures do not undo the purchase", func(t *testing.T) {
		notifier := &FakeNotifications{Err: errors.New("throttled")}
		premium := &FakePremium{}
		ok, err := NewTestService(notifier).PurchasePackage(ctx, "nobody", premium, purchases.Monthly)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, premium.Premium)
	})

	t.Run("unknown plan", func(t *testing.T) {
		premium := &FakePremium{}
		ok, err := NewTestService(notifications.NoopNotifications{}).PurchasePackage(ctx, "nobody", premium, "lifetime")
		assert.Error(t, err)
		assert.False(t, ok)
		assert.False(t, premium.Premium)
	})

	t.Run("cancelled while waiting", func(t *testing.T) {
		service := NewTestService(notifications.NoopNotifications{})
		service.Delay = time.Hour
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		premium := &FakePremium{}
		ok, err := service.PurchasePackage(cancelled, "nobody", premium, purchases.Monthly)
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, ok)
		assert.False(t, premium.Premium)
	})
}

func TestRestorePurchases(t *testing.T) {
	ok, err := NewTestService(notifications.NoopNotifications{}).RestorePurchases(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

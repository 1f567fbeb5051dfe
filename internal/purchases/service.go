// Package purchases simulates the in-app purchase provider. There is no real
// entitlement source: purchases always succeed and restores find nothing.
package purchases

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"philcali.me/fridgesnap/internal/exceptions"
	"philcali.me/fridgesnap/internal/notifications"
)

type Plan string

const (
	Monthly Plan = "monthly"
	Annual  Plan = "annual"

	EntitlementId = "fridgesnap_premium"
	DefaultDelay  = 1500 * time.Millisecond
)

var ProductIds = map[Plan]string{
	Monthly: "fridgesnap_monthly",
	Annual:  "fridgesnap_annual",
}

type PremiumSetter interface {
	SetPremium(value bool)
}

type Service struct {
	Delay         time.Duration
	Notifications notifications.NotificationService
	Logger        *zap.Logger
}

func NewService(notifier notifications.NotificationService, logger *zap.Logger) *Service {
	return &Service{
		Delay:         DefaultDelay,
		Notifications: notifier,
		Logger:        logger,
	}
}

func (s *Service) _wait(ctx context.Context) error {
	timer := time.NewTimer(s.Delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type purchaseEvent struct {
	Username      string `json:"username"`
	Plan          Plan   `json:"plan"`
	ProductId     string `json:"productId"`
	EntitlementId string `json:"entitlementId"`
	PurchaseTime  string `json:"purchaseTime"`
}

// PurchasePackage grants premium unconditionally once the simulated delay
// passes. A failed notification is logged and does not undo the purchase.
func (s *Service) PurchasePackage(ctx context.Context, username string, target PremiumSetter, plan Plan) (bool, error) {
	productId, ok := ProductIds[plan]
	if !ok {
		return false, exceptions.InvalidInput("Unknown plan: " + string(plan))
	}
	s.Logger.Info("purchase initiated", zap.String("productId", productId))
	if err := s._wait(ctx); err != nil {
		return false, err
	}
	target.SetPremium(true)
	body, err := json.Marshal(purchaseEvent{
		Username:      username,
		Plan:          plan,
		ProductId:     productId,
		EntitlementId: EntitlementId,
		PurchaseTime:  time.Now().UTC().Format(time.RFC3339),
	})
	if err == nil {
		err = s.Notifications.Publish(ctx, notifications.Message{
			Id:         uuid.NewString(),
			Subject:    "FridgeSnap premium purchased",
			Body:       string(body),
			Attributes: map[string]string{"type": "purchase", "plan": string(plan)},
		})
	}
	if err != nil {
		s.Logger.Warn("failed to publish purchase", zap.String("productId", productId), zap.Error(err))
	}
	return true, nil
}

// RestorePurchases always reports that nothing was found.
func (s *Service) RestorePurchases(ctx context.Context) (bool, error) {
	if err := s._wait(ctx); err != nil {
		return false, err
	}
	return false, nil
}

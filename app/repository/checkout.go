package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vibast-solutions/ms-go-donations/app/entity"
)

const checkoutKeyPrefix = "donations:checkout:"

type CheckoutRepository struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewCheckoutRepository(client redis.Cmdable, ttl time.Duration) *CheckoutRepository {
	return &CheckoutRepository{client: client, ttl: ttl}
}

func (r *CheckoutRepository) Save(ctx context.Context, session *entity.CheckoutSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, checkoutKeyPrefix+session.PaymentID, payload, r.ttl).Err()
}

// Find returns nil, nil once the session expired or was removed.
func (r *CheckoutRepository) Find(ctx context.Context, paymentID string) (*entity.CheckoutSession, error) {
	raw, err := r.client.Get(ctx, checkoutKeyPrefix+paymentID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	session := &entity.CheckoutSession{}
	if err := json.Unmarshal(raw, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (r *CheckoutRepository) Delete(ctx context.Context, paymentID string) error {
	return r.client.Del(ctx, checkoutKeyPrefix+paymentID).Err()
}

// Package metrics provides get-or-create access to lifetime and daily metric
// buckets. Creation is idempotent: the first touch of a (key, day) bucket
// persists a zero-valued record, later touches load the same record.
package metrics

import (
	"context"
	"errors"
	"fmt"

	"vault-analytics-lab/internal/domain"
	"vault-analytics-lab/internal/storage"
)

// LifetimePoolMetric loads or creates a pool's cumulative record. Normally the
// record exists from registration time; creation here covers pools first seen
// mid-stream.
func LifetimePoolMetric(ctx context.Context, store storage.MetricStore, poolID string, block domain.Block) (*domain.LifetimePoolMetric, error) {
	m, err := store.LoadLifetimePoolMetric(ctx, poolID)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("load lifetime pool metric: %w", err)
	}
	m = &domain.LifetimePoolMetric{PoolID: poolID, StartTime: block.Timestamp}
	if err := store.SaveLifetimePoolMetric(ctx, m); err != nil {
		return nil, fmt.Errorf("create lifetime pool metric: %w", err)
	}
	return m, nil
}

// DailyPoolMetric loads or creates the (pool, day) bucket for the block's day.
func DailyPoolMetric(ctx context.Context, store storage.MetricStore, poolID string, block domain.Block) (*domain.DailyPoolMetric, error) {
	day := domain.DayIndex(block.Timestamp)
	m, err := store.LoadDailyPoolMetric(ctx, poolID, day)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("load daily pool metric: %w", err)
	}
	m = &domain.DailyPoolMetric{
		PoolID:    poolID,
		Day:       day,
		StartTime: day * 86400,
	}
	if err := store.SaveDailyPoolMetric(ctx, m); err != nil {
		return nil, fmt.Errorf("create daily pool metric: %w", err)
	}
	return m, nil
}

// DailyPoolMetricAtDay loads an existing bucket or reports storage.ErrNotFound.
// Used for yesterday lookups when computing 24h change.
func DailyPoolMetricAtDay(ctx context.Context, store storage.MetricStore, poolID string, day int64) (*domain.DailyPoolMetric, error) {
	return store.LoadDailyPoolMetric(ctx, poolID, day)
}

// DailyPoolToken loads or creates the (pool, token, day) balance bucket.
func DailyPoolToken(ctx context.Context, store storage.MetricStore, poolID, token string, block domain.Block) (*domain.DailyPoolToken, error) {
	day := domain.DayIndex(block.Timestamp)
	m, err := store.LoadDailyPoolToken(ctx, poolID, token, day)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("load daily pool token: %w", err)
	}
	m = &domain.DailyPoolToken{
		PoolID:    poolID,
		Token:     token,
		Day:       day,
		StartTime: day * 86400,
	}
	if err := store.SaveDailyPoolToken(ctx, m); err != nil {
		return nil, fmt.Errorf("create daily pool token: %w", err)
	}
	return m, nil
}

// LifetimeVaultMetric loads or creates the protocol-wide singleton. StartTime
// is fixed at the first block that touches it.
func LifetimeVaultMetric(ctx context.Context, store storage.MetricStore, block domain.Block) (*domain.LifetimeVaultMetric, error) {
	m, err := store.LoadLifetimeVaultMetric(ctx)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("load lifetime vault metric: %w", err)
	}
	m = &domain.LifetimeVaultMetric{StartTime: block.Timestamp}
	if err := store.SaveLifetimeVaultMetric(ctx, m); err != nil {
		return nil, fmt.Errorf("create lifetime vault metric: %w", err)
	}
	return m, nil
}

// DailyVaultMetric loads or creates the protocol-wide day bucket.
func DailyVaultMetric(ctx context.Context, store storage.MetricStore, block domain.Block) (*domain.DailyVaultMetric, error) {
	day := domain.DayIndex(block.Timestamp)
	m, err := store.LoadDailyVaultMetric(ctx, day)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("load daily vault metric: %w", err)
	}
	m = &domain.DailyVaultMetric{
		Day:       day,
		StartTime: day * 86400,
	}
	if err := store.SaveDailyVaultMetric(ctx, m); err != nil {
		return nil, fmt.Errorf("create daily vault metric: %w", err)
	}
	return m, nil
}

// DailyVaultMetricAtDay loads an existing bucket or reports storage.ErrNotFound.
func DailyVaultMetricAtDay(ctx context.Context, store storage.MetricStore, day int64) (*domain.DailyVaultMetric, error) {
	return store.LoadDailyVaultMetric(ctx, day)
}

// DailyVaultToken loads or creates the vault-wide (token, day) balance bucket.
func DailyVaultToken(ctx context.Context, store storage.MetricStore, token string, block domain.Block) (*domain.DailyVaultToken, error) {
	day := domain.DayIndex(block.Timestamp)
	m, err := store.LoadDailyVaultToken(ctx, token, day)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("load daily vault token: %w", err)
	}
	m = &domain.DailyVaultToken{
		Token:     token,
		Day:       day,
		StartTime: day * 86400,
	}
	if err := store.SaveDailyVaultToken(ctx, m); err != nil {
		return nil, fmt.Errorf("create daily vault token: %w", err)
	}
	return m, nil
}

// LifetimeUserMetric loads or creates a user's lifetime activity record.
func LifetimeUserMetric(ctx context.Context, store storage.UserStore, user string) (*domain.LifetimeUserMetric, error) {
	m, err := store.LoadLifetimeUserMetric(ctx, user)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("load lifetime user metric: %w", err)
	}
	m = &domain.LifetimeUserMetric{User: user}
	if err := store.SaveLifetimeUserMetric(ctx, m); err != nil {
		return nil, fmt.Errorf("create lifetime user metric: %w", err)
	}
	return m, nil
}

// DailyUserMetric loads or creates the (user, day) activity bucket.
func DailyUserMetric(ctx context.Context, store storage.UserStore, user string, block domain.Block) (*domain.DailyUserMetric, error) {
	day := domain.DayIndex(block.Timestamp)
	m, err := store.LoadDailyUserMetric(ctx, user, day)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("load daily user metric: %w", err)
	}
	m = &domain.DailyUserMetric{
		User:      user,
		Day:       day,
		StartTime: day * 86400,
	}
	if err := store.SaveDailyUserMetric(ctx, m); err != nil {
		return nil, fmt.Errorf("create daily user metric: %w", err)
	}
	return m, nil
}

// DailyUserPoolMetric loads or creates the (user, pool, day) activity bucket.
func DailyUserPoolMetric(ctx context.Context, store storage.UserStore, user, poolID string, block domain.Block) (*domain.DailyUserPoolMetric, error) {
	day := domain.DayIndex(block.Timestamp)
	m, err := store.LoadDailyUserPoolMetric(ctx, user, poolID, day)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("load daily user pool metric: %w", err)
	}
	m = &domain.DailyUserPoolMetric{
		User:      user,
		PoolID:    poolID,
		Day:       day,
		StartTime: day * 86400,
	}
	if err := store.SaveDailyUserPoolMetric(ctx, m); err != nil {
		return nil, fmt.Errorf("create daily user pool metric: %w", err)
	}
	return m, nil
}

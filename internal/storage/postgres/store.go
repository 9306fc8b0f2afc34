package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"vault-analytics-lab/internal/domain"
	"vault-analytics-lab/internal/storage"
)

// Store implements storage.Store on PostgreSQL. Every entity is persisted as
// one jsonb document keyed by its natural key; saves are upserts.
type Store struct {
	pool *Pool
}

// NewStore creates a postgres-backed store.
func NewStore(pool *Pool) *Store {
	return &Store{pool: pool}
}

var _ storage.Store = (*Store)(nil)

// upsert serializes the entity and writes it with the given keyed query. The
// query's last placeholder receives the jsonb document.
func (s *Store) upsert(ctx context.Context, query string, entity any, keys ...any) error {
	doc, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("marshal entity: %w", err)
	}
	args := append(append([]any{}, keys...), doc)
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	return nil
}

// loadDoc scans a single jsonb document into dest, mapping no-rows to
// storage.ErrNotFound.
func (s *Store) loadDoc(ctx context.Context, dest any, query string, keys ...any) error {
	var doc []byte
	err := s.pool.QueryRow(ctx, query, keys...).Scan(&doc)
	if isNotFoundError(err) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	if err := json.Unmarshal(doc, dest); err != nil {
		return fmt.Errorf("unmarshal entity: %w", err)
	}
	return nil
}

// ---- PoolStore ----

func (s *Store) LoadPool(ctx context.Context, poolID string) (*domain.Pool, error) {
	var p domain.Pool
	if err := s.loadDoc(ctx, &p, `SELECT doc FROM pools WHERE id = $1`, poolID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) LoadPoolByAddress(ctx context.Context, address string) (*domain.Pool, error) {
	var p domain.Pool
	if err := s.loadDoc(ctx, &p, `SELECT doc FROM pools WHERE address = $1 LIMIT 1`, address); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) SavePool(ctx context.Context, p *domain.Pool) error {
	return s.upsert(ctx, `
		INSERT INTO pools (id, address, doc) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET address = EXCLUDED.address, doc = EXCLUDED.doc
	`, p, p.ID, p.Address)
}

func (s *Store) ListPools(ctx context.Context) ([]*domain.Pool, error) {
	return queryRecords[domain.Pool](ctx, s, `SELECT doc FROM pools ORDER BY id`)
}

func (s *Store) IsPoolAddress(ctx context.Context, address string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pools WHERE address = $1)`, address).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query: %w", err)
	}
	return exists, nil
}

func (s *Store) LoadPoolToken(ctx context.Context, poolID, token string) (*domain.PoolToken, error) {
	var pt domain.PoolToken
	if err := s.loadDoc(ctx, &pt,
		`SELECT doc FROM pool_tokens WHERE pool_id = $1 AND token = $2`, poolID, token); err != nil {
		return nil, err
	}
	return &pt, nil
}

func (s *Store) SavePoolToken(ctx context.Context, pt *domain.PoolToken) error {
	return s.upsert(ctx, `
		INSERT INTO pool_tokens (pool_id, token, doc) VALUES ($1, $2, $3)
		ON CONFLICT (pool_id, token) DO UPDATE SET doc = EXCLUDED.doc
	`, pt, pt.PoolID, pt.Address)
}

func (s *Store) LoadSwapConfig(ctx context.Context, poolID string) (*domain.SwapConfig, error) {
	var c domain.SwapConfig
	if err := s.loadDoc(ctx, &c, `SELECT doc FROM swap_configs WHERE pool_id = $1`, poolID); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) SaveSwapConfig(ctx context.Context, c *domain.SwapConfig) error {
	return s.upsert(ctx, `
		INSERT INTO swap_configs (pool_id, doc) VALUES ($1, $2)
		ON CONFLICT (pool_id) DO UPDATE SET doc = EXCLUDED.doc
	`, c, c.PoolID)
}

// ---- TokenStore ----

func (s *Store) LoadToken(ctx context.Context, address string) (*domain.Token, error) {
	var t domain.Token
	if err := s.loadDoc(ctx, &t, `SELECT doc FROM tokens WHERE address = $1`, address); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) SaveToken(ctx context.Context, t *domain.Token) error {
	return s.upsert(ctx, `
		INSERT INTO tokens (address, doc) VALUES ($1, $2)
		ON CONFLICT (address) DO UPDATE SET doc = EXCLUDED.doc
	`, t, t.Address)
}

func (s *Store) LoadVaultToken(ctx context.Context, address string) (*domain.VaultToken, error) {
	var vt domain.VaultToken
	if err := s.loadDoc(ctx, &vt, `SELECT doc FROM vault_tokens WHERE address = $1`, address); err != nil {
		return nil, err
	}
	return &vt, nil
}

func (s *Store) SaveVaultToken(ctx context.Context, vt *domain.VaultToken) error {
	return s.upsert(ctx, `
		INSERT INTO vault_tokens (address, doc) VALUES ($1, $2)
		ON CONFLICT (address) DO UPDATE SET doc = EXCLUDED.doc
	`, vt, vt.Address)
}

// ---- PriceStore ----

func (s *Store) LoadTokenPrice(ctx context.Context, token, pricingAsset string) (*domain.TokenPrice, error) {
	var tp domain.TokenPrice
	if err := s.loadDoc(ctx, &tp,
		`SELECT doc FROM token_prices WHERE token = $1 AND pricing_asset = $2`, token, pricingAsset); err != nil {
		return nil, err
	}
	return &tp, nil
}

func (s *Store) SaveTokenPrice(ctx context.Context, tp *domain.TokenPrice) error {
	return s.upsert(ctx, `
		INSERT INTO token_prices (token, pricing_asset, doc) VALUES ($1, $2, $3)
		ON CONFLICT (token, pricing_asset) DO UPDATE SET doc = EXCLUDED.doc
	`, tp, tp.Token, tp.PricingAsset)
}

func (s *Store) LoadLatestTokenPrice(ctx context.Context, token string) (*domain.LatestTokenPrice, error) {
	var lp domain.LatestTokenPrice
	if err := s.loadDoc(ctx, &lp, `SELECT doc FROM latest_token_prices WHERE token = $1`, token); err != nil {
		return nil, err
	}
	return &lp, nil
}

func (s *Store) SaveLatestTokenPrice(ctx context.Context, lp *domain.LatestTokenPrice) error {
	return s.upsert(ctx, `
		INSERT INTO latest_token_prices (token, doc) VALUES ($1, $2)
		ON CONFLICT (token) DO UPDATE SET doc = EXCLUDED.doc
	`, lp, lp.Token)
}

func (s *Store) LoadHourlyTokenPrice(ctx context.Context, token string, hour int64) (*domain.HourlyTokenPrice, error) {
	var hp domain.HourlyTokenPrice
	if err := s.loadDoc(ctx, &hp,
		`SELECT doc FROM hourly_token_prices WHERE token = $1 AND hour = $2`, token, hour); err != nil {
		return nil, err
	}
	return &hp, nil
}

func (s *Store) SaveHourlyTokenPrice(ctx context.Context, hp *domain.HourlyTokenPrice) error {
	return s.upsert(ctx, `
		INSERT INTO hourly_token_prices (token, hour, doc) VALUES ($1, $2, $3)
		ON CONFLICT (token, hour) DO UPDATE SET doc = EXCLUDED.doc
	`, hp, hp.Token, hp.Hour)
}

// ---- MetricStore ----

func (s *Store) LoadLifetimePoolMetric(ctx context.Context, poolID string) (*domain.LifetimePoolMetric, error) {
	var m domain.LifetimePoolMetric
	if err := s.loadDoc(ctx, &m, `SELECT doc FROM lifetime_pool_metrics WHERE pool_id = $1`, poolID); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) SaveLifetimePoolMetric(ctx context.Context, m *domain.LifetimePoolMetric) error {
	return s.upsert(ctx, `
		INSERT INTO lifetime_pool_metrics (pool_id, doc) VALUES ($1, $2)
		ON CONFLICT (pool_id) DO UPDATE SET doc = EXCLUDED.doc
	`, m, m.PoolID)
}

func (s *Store) LoadDailyPoolMetric(ctx context.Context, poolID string, day int64) (*domain.DailyPoolMetric, error) {
	var m domain.DailyPoolMetric
	if err := s.loadDoc(ctx, &m,
		`SELECT doc FROM daily_pool_metrics WHERE pool_id = $1 AND day = $2`, poolID, day); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) SaveDailyPoolMetric(ctx context.Context, m *domain.DailyPoolMetric) error {
	return s.upsert(ctx, `
		INSERT INTO daily_pool_metrics (pool_id, day, doc) VALUES ($1, $2, $3)
		ON CONFLICT (pool_id, day) DO UPDATE SET doc = EXCLUDED.doc
	`, m, m.PoolID, m.Day)
}

func (s *Store) LoadDailyPoolToken(ctx context.Context, poolID, token string, day int64) (*domain.DailyPoolToken, error) {
	var m domain.DailyPoolToken
	if err := s.loadDoc(ctx, &m,
		`SELECT doc FROM daily_pool_tokens WHERE pool_id = $1 AND token = $2 AND day = $3`,
		poolID, token, day); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) SaveDailyPoolToken(ctx context.Context, m *domain.DailyPoolToken) error {
	return s.upsert(ctx, `
		INSERT INTO daily_pool_tokens (pool_id, token, day, doc) VALUES ($1, $2, $3, $4)
		ON CONFLICT (pool_id, token, day) DO UPDATE SET doc = EXCLUDED.doc
	`, m, m.PoolID, m.Token, m.Day)
}

func (s *Store) LoadLifetimeVaultMetric(ctx context.Context) (*domain.LifetimeVaultMetric, error) {
	var m domain.LifetimeVaultMetric
	if err := s.loadDoc(ctx, &m, `SELECT doc FROM lifetime_vault_metrics WHERE id = 1`); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) SaveLifetimeVaultMetric(ctx context.Context, m *domain.LifetimeVaultMetric) error {
	return s.upsert(ctx, `
		INSERT INTO lifetime_vault_metrics (id, doc) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc
	`, m)
}

func (s *Store) LoadDailyVaultMetric(ctx context.Context, day int64) (*domain.DailyVaultMetric, error) {
	var m domain.DailyVaultMetric
	if err := s.loadDoc(ctx, &m, `SELECT doc FROM daily_vault_metrics WHERE day = $1`, day); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) SaveDailyVaultMetric(ctx context.Context, m *domain.DailyVaultMetric) error {
	return s.upsert(ctx, `
		INSERT INTO daily_vault_metrics (day, doc) VALUES ($1, $2)
		ON CONFLICT (day) DO UPDATE SET doc = EXCLUDED.doc
	`, m, m.Day)
}

func (s *Store) LoadDailyVaultToken(ctx context.Context, token string, day int64) (*domain.DailyVaultToken, error) {
	var m domain.DailyVaultToken
	if err := s.loadDoc(ctx, &m,
		`SELECT doc FROM daily_vault_tokens WHERE token = $1 AND day = $2`, token, day); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) SaveDailyVaultToken(ctx context.Context, m *domain.DailyVaultToken) error {
	return s.upsert(ctx, `
		INSERT INTO daily_vault_tokens (token, day, doc) VALUES ($1, $2, $3)
		ON CONFLICT (token, day) DO UPDATE SET doc = EXCLUDED.doc
	`, m, m.Token, m.Day)
}

// ---- UserStore ----

func (s *Store) LoadPoolShares(ctx context.Context, poolID, user string) (*domain.PoolShares, error) {
	var sh domain.PoolShares
	if err := s.loadDoc(ctx, &sh,
		`SELECT doc FROM pool_shares WHERE pool_id = $1 AND holder = $2`, poolID, user); err != nil {
		return nil, err
	}
	return &sh, nil
}

func (s *Store) SavePoolShares(ctx context.Context, sh *domain.PoolShares) error {
	return s.upsert(ctx, `
		INSERT INTO pool_shares (pool_id, holder, doc) VALUES ($1, $2, $3)
		ON CONFLICT (pool_id, holder) DO UPDATE SET doc = EXCLUDED.doc
	`, sh, sh.PoolID, sh.User)
}

func (s *Store) LoadLifetimeUserMetric(ctx context.Context, user string) (*domain.LifetimeUserMetric, error) {
	var m domain.LifetimeUserMetric
	if err := s.loadDoc(ctx, &m, `SELECT doc FROM lifetime_user_metrics WHERE holder = $1`, user); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) SaveLifetimeUserMetric(ctx context.Context, m *domain.LifetimeUserMetric) error {
	return s.upsert(ctx, `
		INSERT INTO lifetime_user_metrics (holder, doc) VALUES ($1, $2)
		ON CONFLICT (holder) DO UPDATE SET doc = EXCLUDED.doc
	`, m, m.User)
}

func (s *Store) LoadDailyUserMetric(ctx context.Context, user string, day int64) (*domain.DailyUserMetric, error) {
	var m domain.DailyUserMetric
	if err := s.loadDoc(ctx, &m,
		`SELECT doc FROM daily_user_metrics WHERE holder = $1 AND day = $2`, user, day); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) SaveDailyUserMetric(ctx context.Context, m *domain.DailyUserMetric) error {
	return s.upsert(ctx, `
		INSERT INTO daily_user_metrics (holder, day, doc) VALUES ($1, $2, $3)
		ON CONFLICT (holder, day) DO UPDATE SET doc = EXCLUDED.doc
	`, m, m.User, m.Day)
}

func (s *Store) LoadDailyUserPoolMetric(ctx context.Context, user, poolID string, day int64) (*domain.DailyUserPoolMetric, error) {
	var m domain.DailyUserPoolMetric
	if err := s.loadDoc(ctx, &m,
		`SELECT doc FROM daily_user_pool_metrics WHERE holder = $1 AND pool_id = $2 AND day = $3`,
		user, poolID, day); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) SaveDailyUserPoolMetric(ctx context.Context, m *domain.DailyUserPoolMetric) error {
	return s.upsert(ctx, `
		INSERT INTO daily_user_pool_metrics (holder, pool_id, day, doc) VALUES ($1, $2, $3, $4)
		ON CONFLICT (holder, pool_id, day) DO UPDATE SET doc = EXCLUDED.doc
	`, m, m.User, m.PoolID, m.Day)
}

// ---- UpdateStore ----

func (s *Store) LoadGradualWeightUpdate(ctx context.Context, poolID string) (*domain.GradualWeightUpdate, error) {
	var u domain.GradualWeightUpdate
	if err := s.loadDoc(ctx, &u, `SELECT doc FROM gradual_weight_updates WHERE pool_id = $1`, poolID); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) SaveGradualWeightUpdate(ctx context.Context, u *domain.GradualWeightUpdate) error {
	return s.upsert(ctx, `
		INSERT INTO gradual_weight_updates (pool_id, doc) VALUES ($1, $2)
		ON CONFLICT (pool_id) DO UPDATE SET doc = EXCLUDED.doc
	`, u, u.PoolID)
}

func (s *Store) LoadGradualAmpUpdate(ctx context.Context, poolID string) (*domain.GradualAmpUpdate, error) {
	var u domain.GradualAmpUpdate
	if err := s.loadDoc(ctx, &u, `SELECT doc FROM gradual_amp_updates WHERE pool_id = $1`, poolID); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) SaveGradualAmpUpdate(ctx context.Context, u *domain.GradualAmpUpdate) error {
	return s.upsert(ctx, `
		INSERT INTO gradual_amp_updates (pool_id, doc) VALUES ($1, $2)
		ON CONFLICT (pool_id) DO UPDATE SET doc = EXCLUDED.doc
	`, u, u.PoolID)
}

// ---- TradeStore ----

func (s *Store) SaveSwapRecord(ctx context.Context, r *domain.SwapRecord) error {
	return s.upsert(ctx, `
		INSERT INTO swap_records (tx_hash, log_index, pool_id, ts, doc) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tx_hash, log_index) DO UPDATE SET doc = EXCLUDED.doc
	`, r, r.TxHash, r.LogIndex, r.PoolID, r.Timestamp)
}

func (s *Store) SaveJoinRecord(ctx context.Context, r *domain.JoinRecord) error {
	return s.upsert(ctx, `
		INSERT INTO join_records (tx_hash, log_index, pool_id, ts, doc) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tx_hash, log_index) DO UPDATE SET doc = EXCLUDED.doc
	`, r, r.TxHash, r.LogIndex, r.PoolID, r.Timestamp)
}

func (s *Store) SaveExitRecord(ctx context.Context, r *domain.ExitRecord) error {
	return s.upsert(ctx, `
		INSERT INTO exit_records (tx_hash, log_index, pool_id, ts, doc) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tx_hash, log_index) DO UPDATE SET doc = EXCLUDED.doc
	`, r, r.TxHash, r.LogIndex, r.PoolID, r.Timestamp)
}

func (s *Store) SwapRecordsByPool(ctx context.Context, poolID string) ([]*domain.SwapRecord, error) {
	return queryRecords[domain.SwapRecord](ctx, s, `
		SELECT doc FROM swap_records WHERE pool_id = $1 ORDER BY ts, log_index
	`, poolID)
}

func (s *Store) JoinRecordsByPool(ctx context.Context, poolID string) ([]*domain.JoinRecord, error) {
	return queryRecords[domain.JoinRecord](ctx, s, `
		SELECT doc FROM join_records WHERE pool_id = $1 ORDER BY ts, log_index
	`, poolID)
}

func (s *Store) ExitRecordsByPool(ctx context.Context, poolID string) ([]*domain.ExitRecord, error) {
	return queryRecords[domain.ExitRecord](ctx, s, `
		SELECT doc FROM exit_records WHERE pool_id = $1 ORDER BY ts, log_index
	`, poolID)
}

func queryRecords[T any](ctx context.Context, s *Store, query string, args ...any) ([]*T, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var out []*T
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		var rec T
		if err := json.Unmarshal(doc, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"marketplace/src/core/domain"
	"marketplace/src/core/ports"
	"marketplace/src/infra/db"
)

var (
	_ ports.ClassifiedAdRepository = (*PostgresClassifiedAdRepository)(nil)
	_ ports.UserProfileRepository  = (*PostgresUserProfileRepository)(nil)
)

// PostgresClassifiedAdRepository stores the projected ad in classified_ads and
// appends every saved event to classified_ad_events. The event table is output
// only; Load never replays it.
type PostgresClassifiedAdRepository struct {
	db     *db.Postgres
	lookup domain.CurrencyLookup
	log    *slog.Logger
}

// NewPostgresClassifiedAdRepository constructs a repository backed by Postgres.
func NewPostgresClassifiedAdRepository(pg *db.Postgres, lookup domain.CurrencyLookup, log *slog.Logger) *PostgresClassifiedAdRepository {
	return &PostgresClassifiedAdRepository{
		db:     pg,
		lookup: lookup,
		log:    log,
	}
}

func (r *PostgresClassifiedAdRepository) Health(ctx context.Context) error {
	return r.db.Health(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func (r *PostgresClassifiedAdRepository) Exists(ctx context.Context, id domain.ClassifiedAdID) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM classified_ads WHERE ad_id = $1)`
	var exists bool
	if err := r.db.Pool.QueryRow(ctx, q, id.Value()).Scan(&exists); err != nil {
		return false, fmt.Errorf("check classified ad: %w", err)
	}
	return exists, nil
}

func (r *PostgresClassifiedAdRepository) Load(ctx context.Context, id domain.ClassifiedAdID) (*domain.ClassifiedAd, error) {
	const q = `
		SELECT ad_id, owner_id, approved_by, title, ad_text, price::text, currency, state, version
		FROM classified_ads
		WHERE ad_id = $1
	`
	var (
		snap     domain.ClassifiedAdSnapshot
		price    *string
		currency *string
		state    string
	)
	err := r.db.Pool.QueryRow(ctx, q, id.Value()).Scan(
		&snap.ID, &snap.OwnerID, &snap.ApprovedBy, &snap.Title, &snap.Text, &price, &currency, &state, &snap.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("classified ad")
		}
		return nil, fmt.Errorf("load classified ad: %w", err)
	}

	snap.State = domain.ClassifiedAdState(state)
	if price != nil {
		amount, err := decimal.NewFromString(*price)
		if err != nil {
			return nil, fmt.Errorf("decode price of classified ad %s: %w", id, err)
		}
		snap.Price = &amount
	}
	if currency != nil {
		snap.Currency = domain.CurrencyCode(*currency)
	}

	return domain.RestoreClassifiedAd(snap, r.lookup)
}

// Save upserts the projection and appends the pending changes in one transaction.
func (r *PostgresClassifiedAdRepository) Save(ctx context.Context, ad *domain.ClassifiedAd) ([]domain.ClassifiedAdEvent, error) {
	const upsert = `
		INSERT INTO classified_ads (ad_id, owner_id, approved_by, title, ad_text, price, currency, state, version, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::text::numeric, $7, $8, $9, now())
		ON CONFLICT (ad_id) DO UPDATE SET
			owner_id = EXCLUDED.owner_id,
			approved_by = EXCLUDED.approved_by,
			title = EXCLUDED.title,
			ad_text = EXCLUDED.ad_text,
			price = EXCLUDED.price,
			currency = EXCLUDED.currency,
			state = EXCLUDED.state,
			version = EXCLUDED.version,
			updated_at = now()
	`
	const appendEvent = `
		INSERT INTO classified_ad_events (event_id, ad_id, position, event_type, payload)
		VALUES ($1, $2, $3, $4, $5)
	`

	snap := ad.Snapshot()
	changes := ad.Changes()

	var (
		price    *string
		currency *string
	)
	if snap.Price != nil {
		p := snap.Price.String()
		c := string(snap.Currency)
		price, currency = &p, &c
	}

	// Positions continue the ad's change log: the last pending event sits at snap.Version.
	first := snap.Version - int64(len(changes)) + 1
	batch := &pgx.Batch{}
	for i, event := range changes {
		payload, err := json.Marshal(event)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", event.EventType(), err)
		}
		batch.Queue(appendEvent, uuid.New(), snap.ID, first+int64(i), event.EventType(), payload)
	}

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, upsert,
			snap.ID, snap.OwnerID, snap.ApprovedBy, snap.Title, snap.Text, price, currency, string(snap.State), snap.Version,
		); err != nil {
			return fmt.Errorf("upsert classified ad: %w", err)
		}
		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			if isUniqueViolation(err) {
				return domain.NewConflictError("classified ad event already recorded")
			}
			return fmt.Errorf("append classified ad events: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ad.ClearChanges()
	r.log.Debug("classified ad persisted", "ad_id", ad.ID().String(), "events", len(changes))
	return changes, nil
}

// PostgresUserProfileRepository stores profiles in user_profiles.
type PostgresUserProfileRepository struct {
	db  *db.Postgres
	log *slog.Logger
}

func NewPostgresUserProfileRepository(pg *db.Postgres, log *slog.Logger) *PostgresUserProfileRepository {
	return &PostgresUserProfileRepository{db: pg, log: log}
}

func (r *PostgresUserProfileRepository) Health(ctx context.Context) error {
	return r.db.Health(ctx)
}

func (r *PostgresUserProfileRepository) Exists(ctx context.Context, id domain.UserID) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM user_profiles WHERE user_id = $1)`
	var exists bool
	if err := r.db.Pool.QueryRow(ctx, q, id.Value()).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user profile: %w", err)
	}
	return exists, nil
}

func (r *PostgresUserProfileRepository) Load(ctx context.Context, id domain.UserID) (*domain.UserProfile, error) {
	const q = `
		SELECT user_id, full_name, display_name, version
		FROM user_profiles
		WHERE user_id = $1
	`
	var snap domain.UserProfileSnapshot
	if err := r.db.Pool.QueryRow(ctx, q, id.Value()).Scan(&snap.ID, &snap.FullName, &snap.DisplayName, &snap.Version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("user profile")
		}
		return nil, fmt.Errorf("load user profile: %w", err)
	}
	return domain.RestoreUserProfile(snap)
}

func (r *PostgresUserProfileRepository) Save(ctx context.Context, profile *domain.UserProfile) ([]domain.UserProfileEvent, error) {
	const q = `
		INSERT INTO user_profiles (user_id, full_name, display_name, version, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (user_id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			display_name = EXCLUDED.display_name,
			version = EXCLUDED.version,
			updated_at = now()
	`
	if err := profile.EnsureValidState(); err != nil {
		return nil, err
	}
	snap := profile.Snapshot()
	changes := profile.Changes()

	if _, err := r.db.Pool.Exec(ctx, q, snap.ID, snap.FullName, snap.DisplayName, snap.Version); err != nil {
		return nil, fmt.Errorf("upsert user profile: %w", err)
	}

	profile.ClearChanges()
	return changes, nil
}

package profilestorage

import (
	"context"
	"database/sql"
	"errors"
	"github.com/burenotti/go_diet_backend/internal/adapter/storage"
	"github.com/burenotti/go_diet_backend/internal/adapter/storage/pgutil"
	"github.com/burenotti/go_diet_backend/internal/domain"
	"github.com/burenotti/go_diet_backend/internal/domain/nutrition"
	"github.com/burenotti/go_diet_backend/internal/domain/profile"
	"github.com/leporo/sqlf"
	"github.com/r3labs/diff"
	"time"
)

type PostgresStorage struct {
	base *pgutil.BasePostgresStorage
}

func NewPostgresStorage(db storage.DBContext) *PostgresStorage {
	return &PostgresStorage{
		base: pgutil.NewBasePostgresStorage(db),
	}
}

func (s *PostgresStorage) Add(ctx context.Context, p *profile.Profile) error {
	q := sqlf.InsertInto("profiles").
		Set("user_id", p.UserID).
		Set("name", p.Name).
		Set("gender", p.Gender).
		Set("birth_date", p.BirthDate).
		Set("height_cm", p.HeightCm).
		Set("weight_kg", p.WeightKg).
		Set("activity_level", p.ActivityLevel).
		Set("updated_at", p.UpdatedAt)

	if _, err := q.ExecAndClose(ctx, s.base.DB); err != nil {
		if pgutil.ViolatesConstraint(err, "profiles_pkey") {
			return profile.ErrProfileExists
		}
		return storage.InternalError(err)
	}

	s.base.MarkSeen(p.UserID, p)
	return nil
}

func (s *PostgresStorage) GetByID(ctx context.Context, userID string) (*profile.Profile, error) {
	var r profileRow
	q := sqlf.From("profiles p").
		Where("p.user_id = ?", userID).
		Select("p.user_id").To(&r.UserID).
		Select("p.name").To(&r.Name).
		Select("p.gender").To(&r.Gender).
		Select("p.birth_date").To(&r.BirthDate).
		Select("p.height_cm").To(&r.HeightCm).
		Select("p.weight_kg").To(&r.WeightKg).
		Select("p.activity_level").To(&r.ActivityLevel).
		Select("p.updated_at").To(&r.UpdatedAt)

	if err := q.QueryRowAndClose(ctx, s.base.DB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, storage.InternalError(err)
	}

	p := r.toDomain()
	s.base.MarkSeen(p.UserID, p)
	return p, nil
}

// Persist writes only the columns that differ from the stored row.
func (s *PostgresStorage) Persist(ctx context.Context, p *profile.Profile) error {
	stored, err := s.GetByID(ctx, p.UserID)
	if err != nil {
		return err
	}
	s.base.MarkSeen(p.UserID, p)

	changes, err := diff.Diff(stored, p)
	if err != nil {
		return storage.InternalError(err)
	}
	if len(changes) == 0 {
		return nil
	}

	q, err := pgutil.MakeUpdateQuery(sqlf.Update("profiles").Where("user_id = ?", p.UserID), changes)
	if err != nil {
		return storage.InternalError(err)
	}

	res, err := q.ExecAndClose(ctx, s.base.DB)
	return pgutil.AssertUpdated(res, err, profile.ErrProfileNotFound)
}

func (s *PostgresStorage) CollectEvents() []domain.Event {
	return s.base.CollectEvents()
}

func (s *PostgresStorage) Close() error {
	s.base.Close()
	return nil
}

type profileRow struct {
	UserID        string
	Name          *string
	Gender        *string
	BirthDate     *time.Time
	HeightCm      *float64
	WeightKg      *float64
	ActivityLevel *string
	UpdatedAt     *time.Time
}

// toDomain drops enum values the domain does not know instead of failing the read;
// such a profile is treated as incomplete.
func (r *profileRow) toDomain() *profile.Profile {
	p := &profile.Profile{
		UserID:    r.UserID,
		BirthDate: r.BirthDate,
		HeightCm:  r.HeightCm,
		WeightKg:  r.WeightKg,
	}
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.UpdatedAt != nil {
		p.UpdatedAt = *r.UpdatedAt
	}
	if r.Gender != nil {
		if g, err := nutrition.ParseGender(*r.Gender); err == nil {
			p.Gender = &g
		}
	}
	if r.ActivityLevel != nil {
		if l, err := nutrition.ParseActivityLevel(*r.ActivityLevel); err == nil {
			p.ActivityLevel = &l
		}
	}
	return p
}

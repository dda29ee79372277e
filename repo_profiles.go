package ryde

import (
	"context"
	"fmt"

	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Profiles interface {
	repository.Repository[*UserProfile]

	GetByClerkID(ctx context.Context, clerkID string, criteria ...repository.SelectCriteria) (*UserProfile, error)
	GetByClerkIDTx(ctx context.Context, tx bun.IDB, clerkID string, criteria ...repository.SelectCriteria) (*UserProfile, error)

	Record(ctx context.Context, record *UserProfile) (*UserProfile, error)
	RecordTx(ctx context.Context, tx bun.IDB, record *UserProfile) (*UserProfile, error)
}

type profiles struct {
	repository.Repository[*UserProfile]
	db *bun.DB
}

var (
	_ Profiles                            = (*profiles)(nil)
	_ repository.Repository[*UserProfile] = (*profiles)(nil)
)

func NewProfilesRepository(db *bun.DB) Profiles {
	repo := repository.NewRepository[*UserProfile](db, repository.ModelHandlers[*UserProfile]{
		NewRecord: func() *UserProfile { return &UserProfile{} },
		GetID: func(p *UserProfile) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *UserProfile, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &profiles{
		Repository: repo,
		db:         db,
	}
}

func (a *profiles) GetByClerkID(ctx context.Context, clerkID string, criteria ...repository.SelectCriteria) (*UserProfile, error) {
	return a.GetByClerkIDTx(ctx, a.db, clerkID, criteria...)
}

func (a *profiles) GetByClerkIDTx(ctx context.Context, tx bun.IDB, clerkID string, criteria ...repository.SelectCriteria) (*UserProfile, error) {
	record := &UserProfile{}
	q := tx.NewSelect().Model(record)

	for _, c := range criteria {
		q.Apply(c)
	}

	err := q.
		Where(fmt.Sprintf("?TableAlias.%s = ?", "clerk_id"), clerkID).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"clerk_id": clerkID,
				})
		}
		return nil, err
	}

	return record, nil
}

// Record writes the profile for a verified account. Replays keyed by the same
// provider account id return the existing row instead of inserting twice.
func (a *profiles) Record(ctx context.Context, record *UserProfile) (*UserProfile, error) {
	return a.RecordTx(ctx, a.db, record)
}

func (a *profiles) RecordTx(ctx context.Context, tx bun.IDB, record *UserProfile) (*UserProfile, error) {
	existing, err := a.GetByClerkIDTx(ctx, tx, record.ClerkID)
	if err == nil {
		return existing, nil
	}

	if !repository.IsRecordNotFound(err) {
		return nil, err
	}

	prepareProfileDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record)
}

func prepareProfileDefaults(record *UserProfile) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		// Derive a stable id from the provider account id so replays resolve
		// to the same row.
		if id, err := hashid.NewUUID(record.ClerkID); err == nil {
			record.ID = id
		} else {
			record.ID = uuid.New()
		}
	}
}

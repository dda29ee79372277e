package ryde

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type RecordProfileMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	ClerkID string `json:"clerkId"`
}

func (e RecordProfileMessage) Type() string { return "profile.record" }

// RecordProfileHandler writes the application-side profile row for a verified
// account inside a transaction.
type RecordProfileHandler struct {
	repo RepositoryManager
}

func NewRecordProfileHandler(repo RepositoryManager) *RecordProfileHandler {
	return &RecordProfileHandler{repo: repo}
}

func (h *RecordProfileHandler) Execute(ctx context.Context, event RecordProfileMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during profile recording",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RecordProfileHandler) execute(ctx context.Context, event RecordProfileMessage) error {
	if event.ClerkID == "" {
		return goerrors.New("missing provider account id", goerrors.CategoryBadInput).
			WithTextCode(TextCodeProfilePersistence)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		profile := &UserProfile{
			Name:    event.Name,
			Email:   event.Email,
			ClerkID: event.ClerkID,
		}

		if _, err := h.repo.Profiles().RecordTx(ctx, tx, profile); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not record profile")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}

		return goerrors.Wrap(err, goerrors.CategoryInternal, "profile recording transaction failed")
	}

	return nil
}

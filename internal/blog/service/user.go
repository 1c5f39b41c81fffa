package service

import (
	"context"

	"github.com/inkwellhq/inkwell/internal/blog/domain"
	"github.com/inkwellhq/inkwell/internal/blog/store"
	"github.com/inkwellhq/inkwell/pkg/slogx"
)

// UserService exposes account lookup and deletion.
type UserService struct {
	Store store.Store
}

func (s *UserService) GetByID(ctx context.Context, id string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, id)
}

// Delete removes the account and revokes every live session in the same
// transaction. The schema cascades blogs and comments.
func (s *UserService) Delete(ctx context.Context, userID string) (int64, error) {
	l := slogx.FromContext(ctx)

	var deleted int64
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.RefreshTokens().DeleteUserRefreshTokens(ctx, userID); err != nil {
			return err
		}
		n, err := tx.Users().DeleteUser(ctx, userID)
		if err != nil {
			return err
		}
		deleted = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		l.Info("user deleted", "user_id", userID)
	}
	return deleted, nil
}

package postgres

import (
	"context"
	"errors"
	"time"

	userDatamodel "github.com/frahmantamala/user-management/internal/core/datamodel/user"
	"github.com/frahmantamala/user-management/internal/core/db"
	"github.com/frahmantamala/user-management/internal/token"
	"gorm.io/gorm"
)

type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(gdb *gorm.DB) token.RepositoryAPI {
	return &TokenRepository{db: gdb}
}

func (r *TokenRepository) Create(ctx context.Context, t *userDatamodel.PersonalAccessToken) error {
	return db.Conn(ctx, r.db).Create(t).Error
}

func (r *TokenRepository) FindByID(ctx context.Context, id int64) (*userDatamodel.PersonalAccessToken, error) {
	var t userDatamodel.PersonalAccessToken
	if err := db.Conn(ctx, r.db).Where("id = ?", id).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, token.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TokenRepository) FindByHash(ctx context.Context, hash string) (*userDatamodel.PersonalAccessToken, error) {
	var t userDatamodel.PersonalAccessToken
	if err := db.Conn(ctx, r.db).Where("token_hash = ?", hash).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, token.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TokenRepository) TouchLastUsed(ctx context.Context, id int64, at time.Time) error {
	return db.Conn(ctx, r.db).
		Model(&userDatamodel.PersonalAccessToken{}).
		Where("id = ?", id).
		Update("last_used_at", at).Error
}

func (r *TokenRepository) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	res := db.Conn(ctx, r.db).Where("user_id = ?", userID).Delete(&userDatamodel.PersonalAccessToken{})
	return res.RowsAffected, res.Error
}

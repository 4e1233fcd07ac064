package repository

import (
	"context"

	"github.com/djjoel12/talksellr/internal/domain/model"
)

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成。メール重複はErrDuplicate
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID string) (*model.User, error)
	//メールからユーザーを一件取得する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

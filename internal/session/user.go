package session

import (
	"context"

	"github.com/djjoel12/talksellr/internal/domain/model"
)

// ログイン中ユーザーを入れるキー
const UserKey = "user"

// セッションに入れるログインユーザー
type User struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

// 未ログインならfalse
func CurrentUser(ctx context.Context, scope Scope) (User, bool, error) {
	var u User
	ok, err := scope.Get(ctx, UserKey, &u)
	if err != nil || !ok {
		return User{}, false, err
	}
	return u, true, nil
}

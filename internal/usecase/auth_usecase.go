package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/djjoel12/talksellr/internal/domain/model"
	"github.com/djjoel12/talksellr/internal/logger"
	repo "github.com/djjoel12/talksellr/internal/repository"
	"github.com/djjoel12/talksellr/internal/session"
	"github.com/djjoel12/talksellr/internal/validator"

	"go.uber.org/zap"
)

type AuthUsecase struct {
	userRepo  repo.UserRepository
	hasher    PasswordHasher
	verifier  PasswordVerifier
	validator *validator.Validator
	idGen     IDGenerator
	clock     Clock
}

// DI
func NewAuthUsecase(
	userRepo repo.UserRepository,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	v *validator.Validator,
	idGen IDGenerator,
	clock Clock,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:  userRepo,
		hasher:    hasher,
		verifier:  verifier,
		validator: v,
		idGen:     idGen,
		clock:     clock,
	}
}

// 会員登録の入力
type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	Role     string `json:"role" validate:"omitempty,oneof=client vendor"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// passwordは返さない
type UserDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

// 会員登録
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (UserDTO, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	if err := u.validator.Validate(in); err != nil {
		return UserDTO{}, badRequest(err)
	}

	// よくある弱いパスワードの拒否
	if isWeakPassword(in.Password) {
		return UserDTO{}, NewHTTPError(http.StatusBadRequest, "password: too weak")
	}

	role := model.RoleClient
	if in.Role == string(model.RoleVendor) {
		role = model.RoleVendor
	}

	// パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	now := u.clock.Now()
	user := &model.User{
		ID:           u.idGen.NewID(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hashed,
		Phone:        in.Phone,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// email重複はunique制約で判定
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return UserDTO{}, NewHTTPError(http.StatusConflict, "email already exists")
		}
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toUserDTO(user), nil
}

// ログイン。成功したらセッションにユーザーを入れる
func (u *AuthUsecase) Login(ctx context.Context, scope session.Scope, in LoginInput) (UserDTO, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := u.validator.Validate(in); err != nil {
		return UserDTO{}, badRequest(err)
	}

	//emailでユーザー取得
	user, err := u.userRepo.FindByEmail(ctx, in.Email)
	if errors.Is(err, repo.ErrNotFound) {
		return UserDTO{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//パスワード照合
	if ok := u.verifier.Verify(in.Password, user.PasswordHash); !ok {
		return UserDTO{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	if err := scope.Set(ctx, session.UserKey, session.User{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}); err != nil {
		logger.FromContext(ctx).Error("failed to store session user", zap.Error(err))
		return UserDTO{}, NewHTTPError(http.StatusServiceUnavailable, "session store unavailable")
	}

	return toUserDTO(user), nil
}

// ログアウト。カートも含めてセッションごと消す
func (u *AuthUsecase) Logout(ctx context.Context, scope session.Scope) error {
	if err := scope.Destroy(ctx); err != nil {
		logger.FromContext(ctx).Error("failed to destroy session", zap.Error(err))
		return NewHTTPError(http.StatusServiceUnavailable, "session store unavailable")
	}
	return nil
}

// 現在のユーザー
func (u *AuthUsecase) Me(ctx context.Context, userID string) (UserDTO, error) {
	if userID == "" {
		return UserDTO{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return UserDTO{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		return UserDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toUserDTO(user), nil
}

func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Phone: u.Phone,
		Role:  string(u.Role),
	}
}

// パスワードのよくある弱いパスワード
func isWeakPassword(password string) bool {
	normalized := strings.ToLower(strings.TrimSpace(password))

	weak := map[string]struct{}{
		"password":    {},
		"password123": {},
		"1234567890":  {},
		"12345678":    {},
		"qwertyuiop":  {},
		"azertyuiop":  {},
		"letmein123":  {},
		"admin123":    {},
	}

	_, ok := weak[normalized]
	return ok
}

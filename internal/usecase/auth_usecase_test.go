package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/djjoel12/talksellr/internal/domain/model"
	repo "github.com/djjoel12/talksellr/internal/repository"
	"github.com/djjoel12/talksellr/internal/session"
	"github.com/djjoel12/talksellr/internal/usecase"
	"github.com/djjoel12/talksellr/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const userID = "9d2c7d55-8a41-4a0e-8a9b-5c7a7c1f0e01"

func newAuthUsecase(users *UserRepoMock) *usecase.AuthUsecase {
	return usecase.NewAuthUsecase(
		users,
		usecase.NewBcryptPasswordHasher(4),
		usecase.NewBcryptPasswordVerifier(),
		validator.New(),
		&seqIDGen{ids: []string{userID}},
		fixedClock{testNow},
	)
}

func TestAuthUsecase_Register_Success(t *testing.T) {
	users := new(UserRepoMock)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.ID == userID &&
			u.Email == "awa@example.com" &&
			u.Role == model.RoleVendor &&
			u.PasswordHash != "" && u.PasswordHash != "s3cret-pass"
	})).Return(nil)

	out, err := newAuthUsecase(users).Register(context.Background(), usecase.RegisterInput{
		Name: "Awa", Email: " Awa@Example.com ", Password: "s3cret-pass", Role: "vendor",
	})
	require.NoError(t, err)
	assert.Equal(t, "vendor", out.Role)
	assert.Equal(t, "awa@example.com", out.Email)
	users.AssertExpectations(t)
}

func TestAuthUsecase_Register_DefaultsToClient(t *testing.T) {
	users := new(UserRepoMock)
	users.On("Create", mock.Anything, mock.Anything).Return(nil)

	out, err := newAuthUsecase(users).Register(context.Background(), usecase.RegisterInput{
		Name: "Koffi", Email: "koffi@example.com", Password: "long-enough",
	})
	require.NoError(t, err)
	assert.Equal(t, "client", out.Role)
}

func TestAuthUsecase_Register_Validation(t *testing.T) {
	uc := newAuthUsecase(new(UserRepoMock))
	ctx := context.Background()

	cases := []struct {
		name string
		in   usecase.RegisterInput
		want string
	}{
		{"email", usecase.RegisterInput{Name: "A", Email: "nope", Password: "long-enough"}, "email"},
		{"short", usecase.RegisterInput{Name: "A", Email: "a@b.co", Password: "short"}, "password"},
		{"weak", usecase.RegisterInput{Name: "A", Email: "a@b.co", Password: "password123"}, "too weak"},
		{"admin", usecase.RegisterInput{Name: "A", Email: "a@b.co", Password: "long-enough", Role: "admin"}, "role"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Register(ctx, tc.in)
			assertStatus(t, err, http.StatusBadRequest)
			assertErrContains(t, err, tc.want)
		})
	}
}

func TestAuthUsecase_Register_DuplicateEmail(t *testing.T) {
	users := new(UserRepoMock)
	users.On("Create", mock.Anything, mock.Anything).Return(repo.ErrDuplicate)

	_, err := newAuthUsecase(users).Register(context.Background(), usecase.RegisterInput{
		Name: "Awa", Email: "awa@example.com", Password: "s3cret-pass",
	})
	assertStatus(t, err, http.StatusConflict)
}

func TestAuthUsecase_Login_StoresSessionUser(t *testing.T) {
	hash, err := usecase.NewBcryptPasswordHasher(4).Hash("s3cret-pass")
	require.NoError(t, err)

	users := new(UserRepoMock)
	users.On("FindByEmail", mock.Anything, "awa@example.com").
		Return(&model.User{ID: userID, Name: "Awa", Email: "awa@example.com", PasswordHash: hash, Role: model.RoleVendor}, nil)

	scope := newScope(t)
	ctx := context.Background()

	out, err := newAuthUsecase(users).Login(ctx, scope, usecase.LoginInput{Email: "AWA@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, userID, out.ID)

	u, ok, err := session.CurrentUser(ctx, scope)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.RoleVendor, u.Role)
}

func TestAuthUsecase_Login_InvalidCredentials(t *testing.T) {
	hash, err := usecase.NewBcryptPasswordHasher(4).Hash("s3cret-pass")
	require.NoError(t, err)

	users := new(UserRepoMock)
	users.On("FindByEmail", mock.Anything, "awa@example.com").Return(&model.User{ID: userID, PasswordHash: hash}, nil)
	users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, repo.ErrNotFound)
	uc := newAuthUsecase(users)
	scope := newScope(t)

	_, err = uc.Login(context.Background(), scope, usecase.LoginInput{Email: "awa@example.com", Password: "wrong-pass"})
	assertStatus(t, err, http.StatusUnauthorized)

	_, err = uc.Login(context.Background(), scope, usecase.LoginInput{Email: "ghost@example.com", Password: "s3cret-pass"})
	assertStatus(t, err, http.StatusUnauthorized)

	_, ok, err := session.CurrentUser(context.Background(), scope)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthUsecase_Logout_DestroysCartToo(t *testing.T) {
	scope := newScope(t)
	ctx := context.Background()
	require.NoError(t, scope.Set(ctx, session.UserKey, session.User{ID: userID}))
	require.NoError(t, scope.Set(ctx, "cart", []model.CartLine{{ProductID: robeID, Quantity: 1}}))

	require.NoError(t, newAuthUsecase(new(UserRepoMock)).Logout(ctx, scope))

	var lines []model.CartLine
	ok, err := scope.Get(ctx, "cart", &lines)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthUsecase_Me(t *testing.T) {
	users := new(UserRepoMock)
	users.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID, Name: "Awa", Role: model.RoleClient}, nil)
	uc := newAuthUsecase(users)

	out, err := uc.Me(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "Awa", out.Name)

	_, err = uc.Me(context.Background(), "")
	assertStatus(t, err, http.StatusUnauthorized)
}

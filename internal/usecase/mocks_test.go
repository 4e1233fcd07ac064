package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/djjoel12/talksellr/internal/checkout"
	"github.com/djjoel12/talksellr/internal/domain/model"
	repo "github.com/djjoel12/talksellr/internal/repository"
	"github.com/djjoel12/talksellr/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	shops     repo.ShopRepository
	products  repo.ProductRepository
	auditLogs repo.AuditLogRepository
}

func (r *TxReposMock) Shops() repo.ShopRepository         { return r.shops }
func (r *TxReposMock) Products() repo.ProductRepository   { return r.products }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository { return r.auditLogs }

// =====================
// Repository mocks
// =====================

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id string) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	panic("not used in usecase tests")
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ShopRepoMock struct{ mock.Mock }

func (m *ShopRepoMock) Create(ctx context.Context, s model.Shop) (model.Shop, error) {
	args := m.Called(ctx, s)
	created, _ := args.Get(0).(model.Shop)
	return created, args.Error(1)
}

func (m *ShopRepoMock) Update(ctx context.Context, s model.Shop) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *ShopRepoMock) FindByID(ctx context.Context, id string) (model.Shop, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(model.Shop)
	return s, args.Error(1)
}

func (m *ShopRepoMock) FindByOwnerID(ctx context.Context, ownerID string) (model.Shop, error) {
	args := m.Called(ctx, ownerID)
	s, _ := args.Get(0).(model.Shop)
	return s, args.Error(1)
}

func (m *ShopRepoMock) FindBySlug(ctx context.Context, slug string) (model.Shop, error) {
	args := m.Called(ctx, slug)
	s, _ := args.Get(0).(model.Shop)
	return s, args.Error(1)
}

func (m *ShopRepoMock) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) ListByActor(ctx context.Context, q repo.AuditLogListQuery) ([]model.AuditLog, int64, error) {
	args := m.Called(ctx, q)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Get(1).(int64), args.Error(2)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (model.Order, error) {
	panic("not used in usecase tests")
}

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByIdempotencyKey(ctx context.Context, sessionID string, key string) (model.Order, bool, error) {
	panic("not used in usecase tests")
}

func (m *OrderRepoMock) ListBySellerID(ctx context.Context, sellerID string, q repo.OrderListQuery) ([]model.Order, int64, error) {
	args := m.Called(ctx, sellerID, q)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

type CatalogMock struct{ mock.Mock }

func (m *CatalogMock) FindByIDs(ctx context.Context, ids []string) ([]model.ProductSnapshot, error) {
	args := m.Called(ctx, ids)
	s, _ := args.Get(0).([]model.ProductSnapshot)
	return s, args.Error(1)
}

type ConsolidatorMock struct{ mock.Mock }

func (m *ConsolidatorMock) Consolidate(ctx context.Context, c checkout.Cart, in checkout.Input) (checkout.Result, error) {
	args := m.Called(ctx, c, in)
	res, _ := args.Get(0).(checkout.Result)
	return res, args.Error(1)
}

// =====================
// Helpers
// =====================

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type seqIDGen struct {
	ids []string
	i   int
}

func (g *seqIDGen) NewID() string {
	id := g.ids[g.i%len(g.ids)]
	g.i++
	return id
}

var testNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

// miniredisのセッション
func newScope(t *testing.T) session.Scope {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return session.NewRedisStore(client, time.Hour).Scope(session.NewID())
}

// HTTPErrorの実装詳細に依存しない
func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

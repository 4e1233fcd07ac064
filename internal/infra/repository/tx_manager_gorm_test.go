package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/djjoel12/talksellr/internal/domain/model"
	repo "github.com/djjoel12/talksellr/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxManagerGorm_RollbackOnError(t *testing.T) {
	gdb := setupTestDB(t)
	tm := NewTxManagerGorm(gdb)
	ctx := context.Background()

	boom := errors.New("boom")
	shopID := uuid.NewString()
	err := tm.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Shops().Create(ctx, model.Shop{ID: shopID, Name: "Tx", Slug: "tx", OwnerID: "o1"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = NewShopGormRepository(gdb).FindByID(ctx, shopID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestTxManagerGorm_Commit(t *testing.T) {
	gdb := setupTestDB(t)
	tm := NewTxManagerGorm(gdb)
	ctx := context.Background()

	p := newProduct("A", "1", "s1")
	err := tm.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Products().Create(ctx, p); err != nil {
			return err
		}
		if err := r.Products().SoftDelete(ctx, p.ID); err != nil {
			return err
		}
		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  "s1",
			Action:       model.AuditActionDeleteProduct,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   p.ID,
		})
	})
	require.NoError(t, err)

	logs, total, err := NewAuditLogGormRepository(gdb).ListByActor(ctx, repo.AuditLogListQuery{ActorUserID: "s1", ResourceID: p.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, logs, 1)
	assert.Equal(t, model.AuditActionDeleteProduct, logs[0].Action)
}

package repository

import (
	"context"

	"github.com/djjoel12/talksellr/internal/domain/model"
)

// 販売者の操作履歴の絞り込み。ActorUserIDは必須
type AuditLogListQuery struct {
	ActorUserID  string
	Action       model.AuditAction
	ResourceType model.AuditResourceType
	ResourceID   string
	Page         int
	Limit        int
}

type AuditLogRepository interface {
	//監査ログを1件保存
	Create(ctx context.Context, log model.AuditLog) error

	//操作した本人のログだけ（新しい順）
	ListByActor(ctx context.Context, q AuditLogListQuery) ([]model.AuditLog, int64, error)
}

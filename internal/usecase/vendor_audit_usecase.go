package usecase

import (
	"context"
	"net/http"
	"strings"

	"github.com/djjoel12/talksellr/internal/domain/model"
	repo "github.com/djjoel12/talksellr/internal/repository"
)

// 販売者が自分の操作履歴（商品削除、注文ステータス変更）を見る
type VendorAuditUsecase struct {
	auditRepo repo.AuditLogRepository
}

func NewVendorAuditUsecase(auditRepo repo.AuditLogRepository) *VendorAuditUsecase {
	return &VendorAuditUsecase{auditRepo: auditRepo}
}

type VendorAuditListInput struct {
	Page         int
	Limit        int
	Action       string
	ResourceType string
	ResourceID   string
}

type VendorAuditListOutput struct {
	Items []model.AuditLog `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

func (u *VendorAuditUsecase) ListMine(ctx context.Context, actorID string, in VendorAuditListInput) (VendorAuditListOutput, error) {
	if actorID == "" {
		return VendorAuditListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := checkPage(in.Page, in.Limit); err != nil {
		return VendorAuditListOutput{}, err
	}

	//絞り込みの値チェック
	action := model.AuditAction(strings.ToUpper(strings.TrimSpace(in.Action)))
	if action != "" && !action.Valid() {
		return VendorAuditListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid action")
	}
	rt := model.AuditResourceType(strings.ToLower(strings.TrimSpace(in.ResourceType)))
	if rt != "" && !rt.Valid() {
		return VendorAuditListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid resource_type")
	}

	logs, total, err := u.auditRepo.ListByActor(ctx, repo.AuditLogListQuery{
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: rt,
		ResourceID:   strings.TrimSpace(in.ResourceID),
		Page:         in.Page,
		Limit:        in.Limit,
	})
	if err != nil {
		return VendorAuditListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return VendorAuditListOutput{Items: logs, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/djjoel12/talksellr/internal/domain/model"
	"github.com/djjoel12/talksellr/internal/logger"
	repo "github.com/djjoel12/talksellr/internal/repository"

	"go.uber.org/zap"
)

// 販売者向けの注文（自分の商品を含む注文）
type VendorOrderUsecase struct {
	orders    repo.OrderRepository
	auditRepo repo.AuditLogRepository
	clock     Clock
}

func NewVendorOrderUsecase(orders repo.OrderRepository, auditRepo repo.AuditLogRepository, clock Clock) *VendorOrderUsecase {
	return &VendorOrderUsecase{orders: orders, auditRepo: auditRepo, clock: clock}
}

type VendorOrderListInput struct {
	Page   int
	Limit  int
	Status string
}

type VendorOrderListOutput struct {
	Items []model.Order `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

type UpdateOrderStatusInput struct {
	Status string `json:"status"`
}

// 注文一覧（新しい順）
func (u *VendorOrderUsecase) List(ctx context.Context, sellerID string, in VendorOrderListInput) (VendorOrderListOutput, error) {
	if sellerID == "" {
		return VendorOrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := checkPage(in.Page, in.Limit); err != nil {
		return VendorOrderListOutput{}, err
	}
	status := strings.TrimSpace(in.Status)
	if status != "" && !model.OrderStatus(status).Valid() {
		return VendorOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	orders, total, err := u.orders.ListBySellerID(ctx, sellerID, repo.OrderListQuery{
		Page:   in.Page,
		Limit:  in.Limit,
		Status: status,
	})
	if err != nil {
		return VendorOrderListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return VendorOrderListOutput{Items: orders, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

// ステータス更新。canceled/deliveredは終端
func (u *VendorOrderUsecase) UpdateStatus(ctx context.Context, sellerID string, orderID string, in UpdateOrderStatusInput) (model.Order, error) {
	if sellerID == "" {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(orderID) == "" {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	newStatus := model.OrderStatus(strings.ToLower(strings.TrimSpace(in.Status)))
	if !newStatus.Valid() {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	// 注文取得
	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	// 自分の商品を含まない注文は見せない
	if !o.HasSeller(sellerID) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	// すでに同じなら何もしない（200）
	if o.Status == newStatus {
		return o, nil
	}
	// 終端ガード
	if o.Status.Terminal() {
		return model.Order{}, NewHTTPError(http.StatusConflict, "cannot change "+string(o.Status)+" order")
	}

	beforeStatus := string(o.Status)
	if err := u.orders.UpdateStatus(ctx, orderID, newStatus); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	o.Status = newStatus

	// 監査ログ（UPDATE_ORDER_STATUS）
	// 注文はMongoのこともあるので同じTxにはしない。失敗はログに残して更新結果は返す
	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  sellerID,
		Action:       model.AuditActionUpdateOrderStatus,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   orderID,
		BeforeJSON:   statusJSON(beforeStatus),
		AfterJSON:    statusJSON(string(newStatus)),
		CreatedAt:    u.clock.Now(),
	}); err != nil {
		logger.FromContext(ctx).Error("failed to write audit log",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
	}

	return o, nil
}

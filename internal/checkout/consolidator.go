package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/djjoel12/talksellr/internal/domain/model"
	"github.com/djjoel12/talksellr/internal/logger"
	repo "github.com/djjoel12/talksellr/internal/repository"
	"github.com/djjoel12/talksellr/internal/validator"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// セッションのカート
type Cart interface {
	ListLines(ctx context.Context) ([]model.CartLine, error)
	Clear(ctx context.Context) error
}

// 商品カタログ（読み取りのみ）
type Catalog interface {
	FindByIDs(ctx context.Context, ids []string) ([]model.ProductSnapshot, error)
}

// 注文確定の入力
type Input struct {
	SessionID      string `json:"-" validate:"required"`
	CustomerName   string `json:"customer_name" validate:"required,max=100"`
	Phone          string `json:"phone" validate:"required,phone"`
	Address        string `json:"address" validate:"required,max=500"`
	IdempotencyKey string `json:"idempotency_key" validate:"max=255"`
}

type Result struct {
	Order model.Order
	// 商品が見つからず注文から外したproductId
	Dropped []string
	// 同じ冪等キーの既存注文を返した
	Replayed bool
}

// カートと商品を突き合わせて注文を作る
type Consolidator struct {
	catalog   Catalog
	orders    repo.OrderRepository
	validator *validator.Validator
	logger    *zap.Logger
	group     singleflight.Group
}

// DI
func NewConsolidator(catalog Catalog, orders repo.OrderRepository, v *validator.Validator, l *zap.Logger) *Consolidator {
	if l == nil {
		l = zap.NewNop()
	}
	return &Consolidator{
		catalog:   catalog,
		orders:    orders,
		validator: v,
		logger:    l.Named("checkout"),
	}
}

func (c *Consolidator) Consolidate(ctx context.Context, cart Cart, in Input) (Result, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.IdempotencyKey = strings.TrimSpace(in.IdempotencyKey)

	if err := c.validator.Validate(in); err != nil {
		d := validator.Details(err)
		if len(d) == 0 {
			return Result{}, &ValidationError{Field: "input", Reason: err.Error()}
		}
		return Result{}, &ValidationError{Field: d[0].Field, Reason: d[0].Message}
	}

	if in.IdempotencyKey == "" {
		return c.consolidate(ctx, cart, in)
	}

	// 同じ(session, key)の同時送信は1回にまとめる
	// 相乗りした側も結果を受け取るので、先頭リクエストのキャンセルは伝えない
	flightCtx := context.WithoutCancel(ctx)
	v, err, _ := c.group.Do(in.SessionID+"\x00"+in.IdempotencyKey, func() (interface{}, error) {
		return c.consolidate(flightCtx, cart, in)
	})
	if err != nil {
		return Result{}, err
	}
	return v.(Result), nil
}

func (c *Consolidator) consolidate(ctx context.Context, cart Cart, in Input) (Result, error) {
	l := c.logger.With(zap.String("session_id", in.SessionID))
	if id := logger.GetRequestID(ctx); id != "" {
		l = l.With(zap.String("request_id", id))
	}

	//同じキーなら同じ結果
	if in.IdempotencyKey != "" {
		existing, found, err := c.orders.FindByIdempotencyKey(ctx, in.SessionID, in.IdempotencyKey)
		if err != nil {
			return Result{}, &PersistenceError{Op: "find order by idempotency key", Err: err}
		}
		if found {
			l.Info("checkout replayed", zap.String("order_id", existing.ID))
			return Result{Order: existing, Replayed: true}, nil
		}
	}

	//カート明細取得
	lines, err := cart.ListLines(ctx)
	if err != nil {
		return Result{}, &PersistenceError{Op: "read cart", Err: err}
	}
	if len(lines) == 0 {
		return Result{}, &EmptyCartError{}
	}

	//商品取得
	ids := make([]string, 0, len(lines))
	for _, cl := range lines {
		ids = append(ids, cl.ProductID)
	}
	snapshots, err := c.catalog.FindByIDs(ctx, ids)
	if err != nil {
		return Result{}, &PersistenceError{Op: "read catalog", Err: err}
	}
	byID := make(map[string]model.ProductSnapshot, len(snapshots))
	for _, s := range snapshots {
		byID[s.ID] = s
	}

	//スナップショット
	orderLines := make([]model.OrderLine, 0, len(lines))
	dropped := []string{}
	for _, cl := range lines {
		s, ok := byID[cl.ProductID]
		if !ok {
			dropped = append(dropped, cl.ProductID)
			continue
		}
		orderLines = append(orderLines, model.OrderLine{
			ProductID: s.ID,
			Name:      s.Name,
			UnitPrice: s.UnitPrice,
			Currency:  s.Currency,
			Quantity:  cl.Quantity,
			SellerID:  s.SellerID,
			ShopID:    s.ShopID,
			LineTotal: s.UnitPrice.Mul(decimal.NewFromInt(cl.Quantity)),
		})
	}
	if len(orderLines) == 0 {
		return Result{}, &NoValidProductsError{Dropped: dropped}
	}

	// 通貨は先頭明細。換算はしない
	first := orderLines[0]
	total := decimal.Zero
	for _, ol := range orderLines {
		total = total.Add(ol.LineTotal)
		if ol.Currency != first.Currency {
			l.Warn("mixed currencies in cart",
				zap.String("order_currency", first.Currency),
				zap.String("line_currency", ol.Currency),
				zap.String("product_id", ol.ProductID),
			)
		}
	}

	// 送信先は先頭明細の販売者/ショップ
	order := model.Order{
		CustomerName: in.CustomerName,
		Phone:        in.Phone,
		Address:      in.Address,
		Lines:        orderLines,
		GrandTotal:   total,
		Currency:     first.Currency,
		SellerID:     first.SellerID,
		ShopID:       first.ShopID,
		Status:       model.OrderStatusPending,
		SessionID:    in.SessionID,
	}
	if in.IdempotencyKey != "" {
		key := in.IdempotencyKey
		order.IdempotencyKey = &key
	}

	// 注文作成
	created, err := c.orders.Create(ctx, order)
	if err != nil {
		//競合（別プロセスで同じキーが入った等）はもう一回検索して同じ結果を返す
		if errors.Is(err, repo.ErrDuplicate) && in.IdempotencyKey != "" {
			existing, found, ferr := c.orders.FindByIdempotencyKey(ctx, in.SessionID, in.IdempotencyKey)
			if ferr == nil && found {
				return Result{Order: existing, Replayed: true}, nil
			}
		}
		// カートは消さない（そのまま再送できる）
		return Result{}, &PersistenceError{Op: "save order", Err: err}
	}

	// 注文は確定済み。消せなくても失敗にはしない
	if err := cart.Clear(ctx); err != nil {
		l.Error("failed to clear cart after checkout", zap.String("order_id", created.ID), zap.Error(err))
	}

	if len(dropped) > 0 {
		l.Info("unavailable products dropped from order",
			zap.String("order_id", created.ID),
			zap.Strings("product_ids", dropped),
		)
	}
	l.Info("order created",
		zap.String("order_id", created.ID),
		zap.String("grand_total", created.GrandTotal.String()),
		zap.String("currency", created.Currency),
		zap.Int("lines", len(created.Lines)),
	)

	return Result{Order: created, Dropped: dropped}, nil
}

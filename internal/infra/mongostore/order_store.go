package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/djjoel12/talksellr/internal/domain/model"
	repo "github.com/djjoel12/talksellr/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ordersCollection = "orders"

// 注文1件=1ドキュメント。明細は埋め込み
type orderDocument struct {
	ID             string               `bson:"_id"`
	CustomerName   string               `bson:"customer_name"`
	Phone          string               `bson:"phone"`
	Address        string               `bson:"address"`
	Lines          []lineDocument       `bson:"lines"`
	GrandTotal     primitive.Decimal128 `bson:"grand_total"`
	Currency       string               `bson:"currency"`
	SellerID       string               `bson:"seller_id"`
	ShopID         string               `bson:"shop_id"`
	SellerIDs      []string             `bson:"seller_ids"`
	Status         string               `bson:"status"`
	SessionID      string               `bson:"session_id"`
	IdempotencyKey *string              `bson:"idempotency_key,omitempty"`
	CreatedAt      time.Time            `bson:"created_at"`
	UpdatedAt      time.Time            `bson:"updated_at"`
}

type lineDocument struct {
	ProductID string               `bson:"product_id"`
	Name      string               `bson:"name"`
	UnitPrice primitive.Decimal128 `bson:"unit_price"`
	Currency  string               `bson:"currency"`
	Quantity  int64                `bson:"quantity"`
	SellerID  string               `bson:"seller_id"`
	ShopID    string               `bson:"shop_id"`
	LineTotal primitive.Decimal128 `bson:"line_total"`
}

type OrderStore struct {
	collection *mongo.Collection
	now        func() time.Time
}

// DI
func NewOrderStore(db *mongo.Database) *OrderStore {
	return &OrderStore{collection: db.Collection(ordersCollection), now: time.Now}
}

// 冪等キーの一意制約と販売者検索用のインデックス
func (s *OrderStore) CreateIndexes(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "idempotency_key", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"idempotency_key": bson.M{"$exists": true}}),
		},
		{
			Keys: bson.D{{Key: "seller_ids", Value: 1}, {Key: "created_at", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create order indexes: %w", err)
	}
	return nil
}

func (s *OrderStore) Create(ctx context.Context, order model.Order) (model.Order, error) {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.CreatedAt.IsZero() {
		// Mongoはミリ秒精度
		order.CreatedAt = s.now().UTC().Truncate(time.Millisecond)
	}
	order.UpdatedAt = order.CreatedAt

	doc, err := toDocument(order)
	if err != nil {
		return model.Order{}, err
	}

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.Order{}, repo.ErrDuplicate
		}
		return model.Order{}, fmt.Errorf("insert order: %w", err)
	}
	return order, nil
}

func (s *OrderStore) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	return s.findOne(ctx, bson.M{"_id": orderID})
}

func (s *OrderStore) FindByIdempotencyKey(ctx context.Context, sessionID string, key string) (model.Order, bool, error) {
	o, err := s.findOne(ctx, bson.M{"session_id": sessionID, "idempotency_key": key})
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, false, nil
	}
	if err != nil {
		return model.Order{}, false, err
	}
	return o, true, nil
}

func (s *OrderStore) ListBySellerID(ctx context.Context, sellerID string, q repo.OrderListQuery) ([]model.Order, int64, error) {
	page, limit := q.Page, q.Limit
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	filter := bson.M{"seller_ids": sellerID}
	if q.Status != "" {
		filter["status"] = q.Status
	}

	total, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return []model.Order{}, 0, fmt.Errorf("count orders: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return []model.Order{}, 0, fmt.Errorf("find orders: %w", err)
	}
	defer cur.Close(ctx)

	var docs []orderDocument
	if err := cur.All(ctx, &docs); err != nil {
		return []model.Order{}, 0, fmt.Errorf("decode orders: %w", err)
	}

	out := make([]model.Order, 0, len(docs))
	for _, d := range docs {
		o, err := fromDocument(d)
		if err != nil {
			return []model.Order{}, 0, err
		}
		out = append(out, o)
	}
	return out, total, nil
}

func (s *OrderStore) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	res, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": orderID},
		bson.M{"$set": bson.M{"status": string(status), "updated_at": s.now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if res.MatchedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *OrderStore) findOne(ctx context.Context, filter bson.M) (model.Order, error) {
	var doc orderDocument
	err := s.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Order{}, repo.ErrNotFound
		}
		return model.Order{}, fmt.Errorf("find order: %w", err)
	}
	return fromDocument(doc)
}

func toDocument(o model.Order) (orderDocument, error) {
	total, err := toDecimal128(o.GrandTotal)
	if err != nil {
		return orderDocument{}, err
	}

	lines := make([]lineDocument, 0, len(o.Lines))
	sellers := make([]string, 0, len(o.Lines))
	seen := make(map[string]struct{}, len(o.Lines))
	for _, l := range o.Lines {
		unit, err := toDecimal128(l.UnitPrice)
		if err != nil {
			return orderDocument{}, err
		}
		lineTotal, err := toDecimal128(l.LineTotal)
		if err != nil {
			return orderDocument{}, err
		}
		lines = append(lines, lineDocument{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: unit,
			Currency:  l.Currency,
			Quantity:  l.Quantity,
			SellerID:  l.SellerID,
			ShopID:    l.ShopID,
			LineTotal: lineTotal,
		})
		if _, ok := seen[l.SellerID]; !ok {
			seen[l.SellerID] = struct{}{}
			sellers = append(sellers, l.SellerID)
		}
	}

	return orderDocument{
		ID:             o.ID,
		CustomerName:   o.CustomerName,
		Phone:          o.Phone,
		Address:        o.Address,
		Lines:          lines,
		GrandTotal:     total,
		Currency:       o.Currency,
		SellerID:       o.SellerID,
		ShopID:         o.ShopID,
		SellerIDs:      sellers,
		Status:         string(o.Status),
		SessionID:      o.SessionID,
		IdempotencyKey: o.IdempotencyKey,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}, nil
}

func fromDocument(d orderDocument) (model.Order, error) {
	total, err := fromDecimal128(d.GrandTotal)
	if err != nil {
		return model.Order{}, err
	}

	lines := make([]model.OrderLine, 0, len(d.Lines))
	for i, l := range d.Lines {
		unit, err := fromDecimal128(l.UnitPrice)
		if err != nil {
			return model.Order{}, err
		}
		lineTotal, err := fromDecimal128(l.LineTotal)
		if err != nil {
			return model.Order{}, err
		}
		lines = append(lines, model.OrderLine{
			OrderID:   d.ID,
			Position:  i,
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: unit,
			Currency:  l.Currency,
			Quantity:  l.Quantity,
			SellerID:  l.SellerID,
			ShopID:    l.ShopID,
			LineTotal: lineTotal,
		})
	}

	return model.Order{
		ID:             d.ID,
		CustomerName:   d.CustomerName,
		Phone:          d.Phone,
		Address:        d.Address,
		Lines:          lines,
		GrandTotal:     total,
		Currency:       d.Currency,
		SellerID:       d.SellerID,
		ShopID:         d.ShopID,
		Status:         model.OrderStatus(d.Status),
		SessionID:      d.SessionID,
		IdempotencyKey: d.IdempotencyKey,
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("convert %s to decimal128: %w", d.String(), err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("convert decimal128 %s: %w", v.String(), err)
	}
	return d, nil
}

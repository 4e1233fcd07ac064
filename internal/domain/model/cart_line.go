package model

// セッションに保存するカート明細
type CartLine struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

package checkout

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrNoValidProducts = errors.New("no valid products in cart")
	ErrPersistence     = errors.New("order store unavailable")
)

// 入力が不正。リトライしない
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// カートが空。リトライしない
type EmptyCartError struct{}

func (e *EmptyCartError) Error() string        { return ErrEmptyCart.Error() }
func (e *EmptyCartError) Is(target error) bool { return target == ErrEmptyCart }

// カートの商品がすべて存在しない。カートはそのまま残す
type NoValidProductsError struct {
	Dropped []string
}

func (e *NoValidProductsError) Error() string {
	return fmt.Sprintf("%s (dropped: %s)", ErrNoValidProducts.Error(), strings.Join(e.Dropped, ", "))
}

func (e *NoValidProductsError) Is(target error) bool { return target == ErrNoValidProducts }

// ストアの読み書きに失敗。リトライ可能。カートは消さない
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error        { return e.Err }
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
func (e *PersistenceError) Retryable() bool      { return true }

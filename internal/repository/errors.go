package repository

import "errors"

var (
	// 対象が存在しない
	ErrNotFound = errors.New("not found")
	// 一意制約に違反（同じメール、同じスラッグ、同じ冪等キーなど）
	ErrDuplicate = errors.New("duplicate")
)

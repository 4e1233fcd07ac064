package usecase

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// page/limitの最低限チェック
func checkPage(page, limit int) error {
	if page < 1 {
		return NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	return nil
}

package db

import (
	"fmt"
	"time"

	"github.com/djjoel12/talksellr/internal/config"
	"github.com/djjoel12/talksellr/internal/domain/model"
	"github.com/djjoel12/talksellr/internal/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.Config, l *zap.Logger) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), GormConfig(l, cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return gdb, nil
}

// ドライバのエラーをgorm.ErrDuplicatedKeyなどに変換させる
func GormConfig(l *zap.Logger, level string) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.NewGormLogger(l, logger.GormLevel(level), 200*time.Millisecond),
		TranslateError: true,
	}
}

// Migrate はテーブルを作成・更新する。
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&model.User{},
		&model.Shop{},
		&model.Product{},
		&model.Order{},
		&model.OrderLine{},
		&model.AuditLog{},
	)
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/djjoel12/talksellr/internal/catalog"
	"github.com/djjoel12/talksellr/internal/checkout"
	"github.com/djjoel12/talksellr/internal/config"
	"github.com/djjoel12/talksellr/internal/handler"
	"github.com/djjoel12/talksellr/internal/infra/db"
	"github.com/djjoel12/talksellr/internal/infra/mongostore"
	infraRepo "github.com/djjoel12/talksellr/internal/infra/repository"
	"github.com/djjoel12/talksellr/internal/logger"
	"github.com/djjoel12/talksellr/internal/middleware"
	"github.com/djjoel12/talksellr/internal/notify"
	repo "github.com/djjoel12/talksellr/internal/repository"
	"github.com/djjoel12/talksellr/internal/server"
	"github.com/djjoel12/talksellr/internal/session"
	"github.com/djjoel12/talksellr/internal/usecase"
	"github.com/djjoel12/talksellr/internal/validator"

	"go.uber.org/zap"
)

func main() {
	config.LoadDotenv(".env", "../.env")

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	l, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		panic(err)
	}
	defer func() { _ = l.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, l); err != nil {
		l.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, l *zap.Logger) error {
	//DB接続
	gormDB, err := db.Connect(cfg, l)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	//Redis（セッション）
	rdb, err := db.ConnectRedis(ctx, cfg)
	if err != nil {
		return err
	}
	defer rdb.Close()

	checks := map[string]handler.Pinger{
		"postgres": handler.PingFunc(sqlDB.PingContext),
		"redis":    handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	shopRepo := infraRepo.NewShopGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//注文ストア（postgres/mongo）
	var orderRepo repo.OrderRepository
	switch cfg.OrderStore {
	case config.OrderStoreMongo:
		mdb, err := db.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return err
		}
		defer func() { _ = mdb.Client().Disconnect(context.Background()) }()

		store := mongostore.NewOrderStore(mdb)
		if err := store.CreateIndexes(ctx); err != nil {
			return err
		}
		orderRepo = store
		checks["mongo"] = handler.PingFunc(func(ctx context.Context) error { return mdb.Client().Ping(ctx, nil) })
	default:
		orderRepo = infraRepo.NewOrderGormRepository(gormDB)
	}
	l.Info("order store selected", zap.String("order_store", cfg.OrderStore))

	//usecaseに渡す部品
	v := validator.New()
	idGen := usecase.UUIDGenerator{}
	clock := usecase.SystemClock{}

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := usecase.NewBcryptPasswordHasher(12)
	verifier := usecase.NewBcryptPasswordVerifier()

	reader := catalog.NewReader(productRepo)
	consolidator := checkout.NewConsolidator(reader, orderRepo, v, l)
	composer := notify.NewComposer(cfg.MessagingHost)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, hasher, verifier, v, idGen, clock)
	productUC := usecase.NewProductUsecase(productRepo, shopRepo, txm, v, idGen, clock)
	shopUC := usecase.NewShopUsecase(shopRepo, productRepo, txm, v, idGen, clock)
	cartUC := usecase.NewCartUsecase(reader)
	checkoutUC := usecase.NewCheckoutUsecase(consolidator, shopRepo, composer, cfg.MerchantPhone)
	vendorOrderUC := usecase.NewVendorOrderUsecase(orderRepo, auditRepo, clock)
	vendorAuditUC := usecase.NewVendorAuditUsecase(auditRepo)

	//Handler生成
	e := server.New(server.Options{
		Logger:    l,
		Validator: v,
		Sessions:  session.NewRedisStore(rdb, cfg.SessionTTL),
		Session: middleware.SessionConfig{
			Secret: cfg.SessionSecret,
			TTL:    cfg.SessionTTL,
			Secure: cfg.CookieSecure,
		},
	}, server.Handlers{
		Health:        handler.NewHealthHandler(checks),
		Auth:          handler.NewAuthHandler(authUC),
		Product:       handler.NewProductHandler(productUC),
		Shop:          handler.NewShopHandler(shopUC),
		VendorProduct: handler.NewVendorProductHandler(productUC),
		Cart:          handler.NewCartHandler(cartUC),
		Checkout:      handler.NewCheckoutHandler(checkoutUC),
		VendorOrder:   handler.NewVendorOrderHandler(vendorOrderUC),
		VendorAudit:   handler.NewVendorAuditHandler(vendorAuditUC),
	})

	//Server起動
	addr := cfg.Port
	if addr != "" && addr[0] != ':' {
		addr = ":" + addr
	}
	return server.Start(ctx, e, addr, l)
}

package main

import (
	"context"

	"app/internal/basket"
	"app/internal/checkout"
	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	"app/internal/infra/kv"
	infraRepo "app/internal/infra/repository"
	"app/internal/payment"
	"app/internal/platform/metrics"
	"app/internal/server"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	//.envは無ければ環境変数だけで動く
	_ = godotenv.Load("../.env")

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	var log *zap.Logger
	if cfg.GoEnv == "prod" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(
		&model.Item{},
		&model.Branding{},
		&model.ShapeCategory{},
		&model.PaymentConfig{},
		&model.AuditLog{},
	); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	//バスケット永続化。Redis未設定ならメモリで動かす
	ctx := context.Background()
	var store basket.KV
	redisStore, err := kv.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal("redis connect failed", zap.Error(err))
	}
	if redisStore != nil {
		store = redisStore
		defer redisStore.Close()
		log.Info("basket persistence: redis")
	} else {
		store = kv.NewMemory()
		log.Info("basket persistence: in-memory")
	}

	//Repository（GORM実装）生成
	itemRepo := infraRepo.NewItemGormRepository(gormDB)
	brandingRepo := infraRepo.NewBrandingGormRepository(gormDB)
	shapeRepo := infraRepo.NewShapeCategoryGormRepository(gormDB)
	paymentCfgRepo := infraRepo.NewPaymentConfigGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)

	//usecaseに渡す部品
	baskets := basket.NewManager(store, log)
	reconciler := checkout.NewReconciler(itemRepo, log)
	payClient := payment.NewClient(cfg.StripeAPIBase, log)
	m := metrics.New()
	itemValidator := validator.NewItemValidator()

	//Usecase生成
	itemUC := usecase.NewItemUsecase(itemRepo, brandingRepo)
	basketUC := usecase.NewBasketUsecase(baskets, itemRepo, m)
	checkoutUC := usecase.NewCheckoutUsecase(baskets, reconciler, payClient, paymentCfgRepo, m, cfg.Currency, log)
	adminItemUC := usecase.NewAdminItemUsecase(itemRepo, auditRepo, itemValidator, log)
	brandingUC := usecase.NewBrandingUsecase(brandingRepo, shapeRepo, itemRepo, itemValidator)

	//Handler生成
	itemH := handler.NewItemHandler(itemUC)
	basketH := handler.NewBasketHandler(basketUC)
	checkoutH := handler.NewCheckoutHandler(checkoutUC)
	brandingH := handler.NewBrandingHandler(brandingUC)
	adminItemH := handler.NewAdminItemHandler(adminItemUC)
	adminPaymentH := handler.NewAdminPaymentHandler(checkoutUC)

	//Server起動
	e := server.New(cfg, itemH, basketH, checkoutH, brandingH, adminItemH, adminPaymentH)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

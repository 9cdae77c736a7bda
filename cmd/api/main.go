package main

import (
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/infra/webhook"
	"app/internal/server"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type jwtIssuer struct {
	secret   []byte
	tokenTTL time.Duration
}

func (i *jwtIssuer) Issue(userID string, email string, role model.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.tokenTTL)

	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  string(role),
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	//.envはあれば読む
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg.GoEnv)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}
	defer func() { _ = db.Close(gormDB) }()

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.Payment{},
		&model.AuditLog{},
	); err != nil {
		logger.Fatal("migrate failed", zap.Error(err))
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	//JWT issuer（24h。元の実装に合わせる）
	issuer := &jwtIssuer{
		secret:   []byte(cfg.JWTSecret),
		tokenTTL: 24 * time.Hour,
	}

	//通知の署名検証
	verifier := webhook.NewHMACVerifier(cfg.WebhookSecret)
	if cfg.WebhookSecret == "" {
		logger.Warn("WEBHOOK_SECRET is empty; webhook signature verification is disabled")
	}

	//Usecase生成
	orderValidator := validator.NewOrderValidator()
	authUC := usecase.NewAuthUsecase(userRepo, issuer, idGen, clock)
	productUC := usecase.NewProductUsecase(productRepo, idGen, clock)
	orderUC := usecase.NewOrderUsecase(txManager, orderValidator, idGen, clock)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, auditRepo)
	paymentUC := usecase.NewPaymentUsecase(txManager, idGen, clock, logger)

	//Handler生成
	handlers := server.Handlers{
		Auth:         handler.NewAuthHandler(authUC),
		Product:      handler.NewProductHandler(productUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		Order:        handler.NewOrderHandler(orderUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
		Webhook:      handler.NewWebhookHandler(paymentUC, verifier, logger),
	}

	//Server起動
	e := server.New()
	server.RegisterRoutes(e, cfg, handlers)

	addr := ":" + cfg.Port
	logger.Info("server starting", zap.String("addr", addr))

	if err := server.Start(e, addr, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

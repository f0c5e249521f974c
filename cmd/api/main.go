package main

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"myshop/internal/config"
	"myshop/internal/domain/model"
	"myshop/internal/handler"
	"myshop/internal/infra/db"
	infraRepo "myshop/internal/infra/repository"
	"myshop/internal/logger"
	"myshop/internal/mail"
	"myshop/internal/server"
	"myshop/internal/storage"
	"myshop/internal/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

// 6桁の確認コード（100000〜999999）
type resetCodeGenerator struct{}

func (g *resetCodeGenerator) NewCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}

func main() {
	// .envは任意。無くても環境変数だけで動く
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	//DB接続
	gormDB, err := db.Connect(*cfg)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Comment{},
		&model.Session{},
		&model.RefreshToken{},
	); err != nil {
		log.Fatal("auto migrate failed", zap.Error(err))
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartRepo := infraRepo.NewCartItemGormRepository(gormDB)
	commentRepo := infraRepo.NewCommentGormRepository(gormDB)
	sessionRepo := infraRepo.NewSessionGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	clock := &realClock{}
	codes := &resetCodeGenerator{}
	mailer := mail.NewSMTPMailer(cfg.SMTP, log)

	uploads, err := storage.NewUploadStore(cfg.Shop.UploadDir, cfg.Shop.UploadPath)
	if err != nil {
		log.Fatal("upload dir init failed", zap.Error(err))
	}

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg, userRepo, rtRepo, clock)
	catalogUC := usecase.NewCatalogUsecase(productRepo, commentRepo, userRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, productRepo)
	checkoutUC := usecase.NewCheckoutUsecase(txManager, cartRepo, productRepo, sessionRepo)
	resetUC := usecase.NewPasswordResetUsecase(userRepo, sessionRepo, mailer, clock, codes)
	contactUC := usecase.NewContactUsecase(mailer, cfg.Shop.ContactInbox)

	//Handler生成
	authH := handler.NewAuthHandler(authUC, cfg)
	productH := handler.NewProductHandler(catalogUC, uploads, cfg)
	cartH := handler.NewCartHandler(cartUC, cfg)
	checkoutH := handler.NewCheckoutHandler(checkoutUC, cfg, sessionRepo)
	resetH := handler.NewResetHandler(resetUC, cfg, sessionRepo)
	contactH := handler.NewContactHandler(contactUC)

	//Server起動
	e := server.New(cfg, log, authH, productH, cartH, checkoutH, resetH, contactH)
	log.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("env", cfg.Server.Env))
	if err := server.Start(e, cfg); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

package server

import (
	"fmt"

	"myshop/internal/config"
	"myshop/internal/middleware"
	"myshop/internal/validator"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// RouteRegistrar は各ハンドラが自分のルートをechoへ登録する口。
type RouteRegistrar interface {
	RegisterRoutes(e *echo.Echo)
}

// New はechoエンジンを組み立てる。ミドルウェアの順番は
// Recover → リクエストログ の固定。
func New(cfg *config.Config, log *zap.Logger, handlers ...RouteRegistrar) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Validator = validator.New()

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log))

	// 商品画像はアップロード先をそのまま配信する
	e.Static(cfg.Shop.UploadPath, cfg.Shop.UploadDir)

	for _, h := range handlers {
		h.RegisterRoutes(e)
	}
	return e
}

// Start はサーバーを起動してブロックする。
func Start(e *echo.Echo, cfg *config.Config) error {
	return e.Start(fmt.Sprintf(":%s", cfg.Server.Port))
}

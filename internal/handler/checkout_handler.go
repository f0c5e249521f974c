package handler

import (
	"net/http"
	"strconv"

	"myshop/internal/config"
	"myshop/internal/middleware"
	"myshop/internal/repository"
	"myshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// confirm → checkout と注文照会のHTTP
type CheckoutHandler struct {
	uc       *usecase.CheckoutUsecase
	cfg      *config.Config
	sessions repository.SessionRepository
}

// DI
func NewCheckoutHandler(uc *usecase.CheckoutUsecase, cfg *config.Config, sessions repository.SessionRepository) *CheckoutHandler {
	return &CheckoutHandler{uc: uc, cfg: cfg, sessions: sessions}
}

type ConfirmRequest struct {
	PaymentMethod string `json:"payment_method" form:"payment_method" validate:"required"`
}

func (h *CheckoutHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("")
	g.Use(middleware.AuthJWT(h.cfg))
	g.Use(middleware.Session(h.cfg, h.sessions))

	g.POST("/cart/confirm", h.confirm)
	g.POST("/cart/checkout", h.checkout)
	g.GET("/orders", h.listOrders)
	g.GET("/orders/:id", h.orderConfirmation)
}

func (h *CheckoutHandler) confirm(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	sess, ok := getSessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	var req ConfirmRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Confirm(c.Request().Context(), userID, sess, usecase.ConfirmInput{
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CheckoutHandler) checkout(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	sess, ok := getSessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	out, err := h.uc.Commit(c.Request().Context(), userID, sess)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CheckoutHandler) listOrders(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListMyOrders(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CheckoutHandler) orderConfirmation(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetMyOrder(c.Request().Context(), userID, orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

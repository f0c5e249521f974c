package handler

import (
	"net/http"

	"myshop/internal/config"
	"myshop/internal/middleware"
	"myshop/internal/repository"
	"myshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// パスワードリセット3段階フローのHTTP。認証不要、セッション必須。
type ResetHandler struct {
	uc       *usecase.PasswordResetUsecase
	cfg      *config.Config
	sessions repository.SessionRepository
}

func NewResetHandler(uc *usecase.PasswordResetUsecase, cfg *config.Config, sessions repository.SessionRepository) *ResetHandler {
	return &ResetHandler{uc: uc, cfg: cfg, sessions: sessions}
}

type ForgotPasswordRequest struct {
	Email string `json:"email" form:"email" validate:"required"`
}

type VerifyCodeRequest struct {
	Code string `json:"code" form:"code" validate:"required"`
}

type ResetPasswordRequest struct {
	NewPassword     string `json:"new_password" form:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required"`
}

func (h *ResetHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("")
	g.Use(middleware.Session(h.cfg, h.sessions))

	g.POST("/forgot-password", h.forgotPassword)
	g.POST("/verify-code", h.verifyCode)
	g.POST("/reset-password", h.resetPassword)
}

func (h *ResetHandler) forgotPassword(c echo.Context) error {
	sess, ok := getSessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	if err := h.uc.Request(c.Request().Context(), sess, req.Email); err != nil {
		return writeError(c, err)
	}
	// アカウントの有無によらず同じ応答
	return c.JSON(http.StatusOK, MessageResponse{Message: usecase.ResetRequestedMessage})
}

func (h *ResetHandler) verifyCode(c echo.Context) error {
	sess, ok := getSessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	var req VerifyCodeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	if err := h.uc.Verify(c.Request().Context(), sess, req.Code); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "code verified, you may now reset your password"})
}

func (h *ResetHandler) resetPassword(c echo.Context) error {
	sess, ok := getSessionFromContext(c)
	if !ok {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	if err := h.uc.Reset(c.Request().Context(), sess, usecase.ResetPasswordInput{
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	}); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "your password has been reset, please log in"})
}

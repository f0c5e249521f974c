package handler

import (
	"net/http"

	"myshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ContactHandler struct {
	uc *usecase.ContactUsecase
}

func NewContactHandler(uc *usecase.ContactUsecase) *ContactHandler {
	return &ContactHandler{uc: uc}
}

type ContactRequest struct {
	Email   string `json:"email" form:"email"`
	Message string `json:"message" form:"message"`
}

func (h *ContactHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/contact", h.send)
}

func (h *ContactHandler) send(c echo.Context) error {
	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.Send(c.Request().Context(), usecase.ContactInput{
		Email:   req.Email,
		Message: req.Message,
	}); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "your message has been sent"})
}

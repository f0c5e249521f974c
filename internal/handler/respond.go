package handler

import (
	"net/http"

	"myshop/internal/domain/model"
	"myshop/internal/middleware"
	"myshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}
	if ee, ok := err.(*echo.HTTPError); ok {
		return c.JSON(ee.Code, ErrorResponse{Error: http.StatusText(ee.Code)})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxUserIDKey)
	userID, ok := v.(int64)
	return userID, ok && userID > 0
}

func getSessionFromContext(c echo.Context) (*model.Session, bool) {
	v := c.Get(middleware.CtxSessionKey)
	sess, ok := v.(*model.Session)
	return sess, ok && sess != nil
}

package handler

import (
	"net/http"
	"strconv"

	"myshop/internal/config"
	"myshop/internal/middleware"
	"myshop/internal/storage"
	"myshop/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /products の公開API
type ProductHandler struct {
	uc      *usecase.CatalogUsecase
	uploads *storage.UploadStore
	cfg     *config.Config
}

// DI
func NewProductHandler(uc *usecase.CatalogUsecase, uploads *storage.UploadStore, cfg *config.Config) *ProductHandler {
	return &ProductHandler{uc: uc, uploads: uploads, cfg: cfg}
}

type AddCommentRequest struct {
	Name string `json:"name" form:"name"`
	Body string `json:"body" form:"comment" validate:"required"`
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/products", h.list)
	e.GET("/products/:id", h.detail)
	e.POST("/products", h.create)
	e.GET("/search", h.search)
	e.POST("/products/:id/comments", h.addComment, middleware.AuthJWTOptional(h.cfg))
}

func (h *ProductHandler) list(c echo.Context) error {
	// page（default 1）
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	// limit（default 12）
	limit := 12
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	out, err := h.uc.List(c.Request().Context(), usecase.ListProductsInput{
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Detail(c.Request().Context(), productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// multipartで受ける。画像は image1..image4、無いキーは飛ばす。
func (h *ProductHandler) create(c echo.Context) error {
	name := c.FormValue("product_name")
	if name == "" {
		name = c.FormValue("name")
	}

	// 価格のパース失敗は0に丸める
	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil {
		price = 0
	}

	var categories []string
	if form, err := c.MultipartForm(); err == nil {
		categories = form.Value["categories"]
	}
	if len(categories) == 0 {
		if v := c.FormValue("categories"); v != "" {
			categories = []string{v}
		}
	}

	images := make([]string, 0, 4)
	for _, key := range []string{"image1", "image2", "image3", "image4"} {
		fh, err := c.FormFile(key)
		if err != nil || fh.Filename == "" {
			continue
		}
		path, err := h.uploads.Save(fh)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "upload failed"})
		}
		images = append(images, path)
	}

	out, err := h.uc.Create(c.Request().Context(), usecase.CreateProductInput{
		Name:           name,
		Description:    c.FormValue("description"),
		Specifications: c.FormValue("specifications"),
		Categories:     categories,
		Price:          price,
		Images:         images,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ProductHandler) search(c echo.Context) error {
	items, err := h.uc.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) addComment(c echo.Context) error {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req AddCommentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	in := usecase.AddCommentInput{Name: req.Name, Body: req.Body}
	if userID, ok := getUserIDFromContext(c); ok {
		in.UserID = &userID
	}

	out, err := h.uc.AddComment(c.Request().Context(), productID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"myshop/internal/domain/model"
	repo "myshop/internal/repository"
)

// CatalogUsecase は商品の公開面（一覧・詳細・検索・登録・コメント）。
type CatalogUsecase struct {
	products repo.ProductRepository
	comments repo.CommentRepository
	users    repo.UserRepository
}

func NewCatalogUsecase(
	products repo.ProductRepository,
	comments repo.CommentRepository,
	users repo.UserRepository,
) *CatalogUsecase {
	return &CatalogUsecase{
		products: products,
		comments: comments,
		users:    users,
	}
}

type ListProductsInput struct {
	Page  int
	Limit int
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type ProductDetailOutput struct {
	Product  model.Product   `json:"product"`
	Images   []string        `json:"images"`
	Comments []model.Comment `json:"comments"`
}

type CreateProductInput struct {
	Name           string
	Description    string
	Specifications string
	Categories     []string
	Price          float64
	Images         []string // 保存済みのURLパス、最大4枚
}

type AddCommentInput struct {
	UserID *int64
	Name   string
	Body   string
}

func (u *CatalogUsecase) List(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	items, total, err := u.products.List(ctx, in.Page, in.Limit)
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *CatalogUsecase) Detail(ctx context.Context, productID int64) (ProductDetailOutput, error) {
	if productID <= 0 {
		return ProductDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.products.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ProductDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	comments, err := u.comments.ListByProductID(ctx, productID)
	if err != nil {
		return ProductDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductDetailOutput{
		Product:  p,
		Images:   p.Images(),
		Comments: comments,
	}, nil
}

// Search は name / description / categories の部分一致。空クエリは空で返す。
func (u *CatalogUsecase) Search(ctx context.Context, q string) ([]model.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []model.Product{}, nil
	}
	if len(q) > 100 {
		return nil, NewHTTPError(http.StatusBadRequest, "q too long")
	}

	items, err := u.products.Search(ctx, q)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

// Create は商品登録。価格は呼び出し側でパース済み（失敗は0に丸める）。
func (u *CatalogUsecase) Create(ctx context.Context, in CreateProductInput) (model.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "product name is required")
	}
	if in.Price < 0 {
		in.Price = 0
	}

	categories := make([]string, 0, len(in.Categories))
	for _, c := range in.Categories {
		if c = strings.TrimSpace(c); c != "" {
			categories = append(categories, c)
		}
	}

	p := model.Product{
		Name:           in.Name,
		Description:    in.Description,
		Specifications: in.Specifications,
		Categories:     strings.Join(categories, ","),
		Price:          in.Price,
	}

	// 最大4枚。先頭がメイン画像。
	images := in.Images
	if len(images) > 4 {
		images = images[:4]
	}
	slots := []*string{&p.MainImage, &p.Image2, &p.Image3, &p.Image4}
	for i, img := range images {
		*slots[i] = img
	}

	if err := u.products.Create(ctx, &p); err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

// AddComment はコメント投稿。会員なら登録名、ゲストは入力名（無ければGuest）。
func (u *CatalogUsecase) AddComment(ctx context.Context, productID int64, in AddCommentInput) (model.Comment, error) {
	if productID <= 0 {
		return model.Comment{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if strings.TrimSpace(in.Body) == "" {
		return model.Comment{}, NewHTTPError(http.StatusBadRequest, "comment can not be empty")
	}

	if _, err := u.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return model.Comment{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.Comment{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	name := strings.TrimSpace(in.Name)
	if in.UserID != nil {
		user, err := u.users.FindByID(ctx, *in.UserID)
		if err != nil {
			return model.Comment{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if user != nil && user.FirstName != "" {
			name = user.FirstName
		}
	}
	if name == "" {
		name = "Guest"
	}

	c := model.Comment{
		ProductID: productID,
		UserID:    in.UserID,
		Name:      name,
		Body:      in.Body,
	}
	if err := u.comments.Create(ctx, &c); err != nil {
		return model.Comment{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

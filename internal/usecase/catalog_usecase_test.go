package usecase

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"myshop/internal/domain/model"
	repo "myshop/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCatalogUsecaseForTest() (*CatalogUsecase, *MockProductRepository, *MockCommentRepository, *MockUserRepository) {
	products := new(MockProductRepository)
	comments := new(MockCommentRepository)
	users := new(MockUserRepository)
	return NewCatalogUsecase(products, comments, users), products, comments, users
}

func TestSearch_EmptyQueryReturnsEmpty(t *testing.T) {
	uc, products, _, _ := newCatalogUsecaseForTest()

	out, err := uc.Search(context.Background(), "   ")

	assert.NoError(t, err)
	assert.Empty(t, out)
	products.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestSearch_QueryTooLong(t *testing.T) {
	uc, _, _, _ := newCatalogUsecaseForTest()

	_, err := uc.Search(context.Background(), strings.Repeat("a", 101))

	httpErr, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}

func TestCreateProduct_JoinsCategoriesAndFillsImageSlots(t *testing.T) {
	uc, products, _, _ := newCatalogUsecaseForTest()
	ctx := context.Background()

	products.On("Create", ctx, mock.MatchedBy(func(p *model.Product) bool {
		return p.Categories == "electronics,audio" &&
			p.MainImage == "/static/uploads/a.jpg" &&
			p.Image2 == "/static/uploads/b.jpg" &&
			p.Image3 == "" && p.Image4 == ""
	})).Return(nil)

	p, err := uc.Create(ctx, CreateProductInput{
		Name:       "Headphones",
		Categories: []string{" electronics ", "", "audio"},
		Price:      49.99,
		Images:     []string{"/static/uploads/a.jpg", "/static/uploads/b.jpg"},
	})

	assert.NoError(t, err)
	assert.Equal(t, 49.99, p.Price)
	products.AssertExpectations(t)
}

// 負の価格は弾かず0に丸める
func TestCreateProduct_NegativePriceClampedToZero(t *testing.T) {
	uc, products, _, _ := newCatalogUsecaseForTest()
	ctx := context.Background()

	products.On("Create", ctx, mock.MatchedBy(func(p *model.Product) bool {
		return p.Price == 0
	})).Return(nil)

	p, err := uc.Create(ctx, CreateProductInput{Name: "Broken", Price: -5})

	assert.NoError(t, err)
	assert.Equal(t, 0.0, p.Price)
}

func TestCreateProduct_NameRequired(t *testing.T) {
	uc, _, _, _ := newCatalogUsecaseForTest()

	_, err := uc.Create(context.Background(), CreateProductInput{Name: "  "})

	httpErr, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}

func TestAddComment_MemberUsesRegisteredName(t *testing.T) {
	uc, products, comments, users := newCatalogUsecaseForTest()
	ctx := context.Background()
	userID := int64(1)

	products.On("FindByID", ctx, int64(10)).Return(model.Product{ID: 10}, nil)
	users.On("FindByID", ctx, int64(1)).
		Return(&model.User{ID: 1, FirstName: "Alice"}, nil)
	comments.On("Create", ctx, mock.MatchedBy(func(c *model.Comment) bool {
		return c.Name == "Alice" && c.Body == "great product"
	})).Return(nil)

	c, err := uc.AddComment(ctx, 10, AddCommentInput{UserID: &userID, Name: "ignored", Body: "great product"})

	assert.NoError(t, err)
	assert.Equal(t, "Alice", c.Name)
}

func TestAddComment_GuestFallsBackToGuestName(t *testing.T) {
	uc, products, comments, _ := newCatalogUsecaseForTest()
	ctx := context.Background()

	products.On("FindByID", ctx, int64(10)).Return(model.Product{ID: 10}, nil)
	comments.On("Create", ctx, mock.MatchedBy(func(c *model.Comment) bool {
		return c.Name == "Guest" && c.UserID == nil
	})).Return(nil)

	c, err := uc.AddComment(ctx, 10, AddCommentInput{Body: "nice"})

	assert.NoError(t, err)
	assert.Equal(t, "Guest", c.Name)
}

func TestAddComment_EmptyBody(t *testing.T) {
	uc, _, comments, _ := newCatalogUsecaseForTest()

	_, err := uc.AddComment(context.Background(), 10, AddCommentInput{Body: "  "})

	httpErr, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDetail_NotFound(t *testing.T) {
	uc, products, _, _ := newCatalogUsecaseForTest()
	ctx := context.Background()

	products.On("FindByID", ctx, int64(99)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.Detail(ctx, 99)

	httpErr, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
}

func TestDetail_ReturnsImagesAndComments(t *testing.T) {
	uc, products, comments, _ := newCatalogUsecaseForTest()
	ctx := context.Background()

	products.On("FindByID", ctx, int64(10)).Return(model.Product{
		ID:        10,
		Name:      "Laptop",
		MainImage: "/static/uploads/a.jpg",
		Image3:    "/static/uploads/c.jpg",
	}, nil)
	comments.On("ListByProductID", ctx, int64(10)).
		Return([]model.Comment{{ID: 1, ProductID: 10, Name: "Guest", Body: "nice"}}, nil)

	out, err := uc.Detail(ctx, 10)

	assert.NoError(t, err)
	// 空のスロットは詰めて返す
	assert.Equal(t, []string{"/static/uploads/a.jpg", "/static/uploads/c.jpg"}, out.Images)
	assert.Len(t, out.Comments, 1)
}

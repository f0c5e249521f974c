package usecase

import (
	"context"
	"errors"
	"net/http"

	"myshop/internal/domain/model"
	repo "myshop/internal/repository"
)

// CartUsecase は /cart の業務ロジックです。
type CartUsecase struct {
	cartItems repo.CartItemRepository
	products  repo.ProductRepository
}

func NewCartUsecase(
	cartItems repo.CartItemRepository,
	products repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartItems: cartItems,
		products:  products,
	}
}

type CartLineOutput struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int64   `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

type CartOutput struct {
	Items []CartLineOutput `json:"items"`
	Total float64          `json:"total"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

// GetCart はカート取得。
// 商品が消えている行は0円扱いで表示は残す（エラーにしない）。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, err := u.cartItems.ListByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartOutput(ctx, items)
}

// AddToCart はカートに追加（同一商品は数量加算、行は1つのまま）。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 1 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	// 商品チェック
	if _, err := u.products.FindByID(ctx, in.ProductID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartOutput{}, NewHTTPError(http.StatusNotFound, "product not found")
		}
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// merge-or-create
	existing, err := u.cartItems.FindByUserAndProduct(ctx, userID, in.ProductID)
	switch {
	case err == nil:
		if err := u.cartItems.UpdateQuantity(ctx, existing.ID, existing.Quantity+in.Quantity); err != nil {
			return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	case errors.Is(err, repo.ErrNotFound):
		item := &model.CartItem{
			UserID:    userID,
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
		}
		if err := u.cartItems.Create(ctx, item); err != nil {
			return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	default:
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.cartItems.ListByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildCartOutput(ctx, items)
}

// UpdateQuantities は qty_<product_id> 形式の一括更新。
// セッションではなくCartItemの行に直接書き込む。
// 1未満は無視、存在しない行も黙って無視（元の挙動に合わせる）。
func (u *CartUsecase) UpdateQuantities(ctx context.Context, userID int64, quantities map[int64]int64) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	for productID, qty := range quantities {
		if productID <= 0 || qty < 1 {
			continue
		}
		if err := u.cartItems.SetQuantityByProduct(ctx, userID, productID, qty); err != nil {
			return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	items, err := u.cartItems.ListByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildCartOutput(ctx, items)
}

// RemoveItem は自分の行だけ消せる。他人の行は404。
func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, itemID int64) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if itemID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := u.cartItems.DeleteByIDAndUser(ctx, itemID, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartOutput{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.cartItems.ListByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildCartOutput(ctx, items)
}

func (u *CartUsecase) buildCartOutput(ctx context.Context, items []model.CartItem) (CartOutput, error) {
	out := CartOutput{Items: make([]CartLineOutput, 0, len(items))}

	for _, item := range items {
		line := CartLineOutput{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}

		p, err := u.products.FindByID(ctx, item.ProductID)
		switch {
		case err == nil:
			line.Name = p.Name
			line.UnitPrice = p.Price
		case errors.Is(err, repo.ErrNotFound):
			// 参照切れは0円で数える
		default:
			return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		line.Subtotal = line.UnitPrice * float64(line.Quantity)
		out.Total += line.Subtotal
		out.Items = append(out.Items, line)
	}

	return out, nil
}

package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"myshop/internal/domain/model"
	repo "myshop/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentMethodCard = "card"
	PaymentMethodCOD  = "cod"

	// order_numberの一意制約に当たったら採番し直す回数
	orderNumberRetries = 3
)

// CheckoutUsecase は confirm → checkout の2段階フロー。
// 確定はカートのロック・合計の再計算・注文作成・明細スナップショット・
// カート全削除を1トランザクションで行う。
type CheckoutUsecase struct {
	tx        repo.TransactionManager
	cartItems repo.CartItemRepository
	products  repo.ProductRepository
	sessions  repo.SessionRepository
}

func NewCheckoutUsecase(
	tx repo.TransactionManager,
	cartItems repo.CartItemRepository,
	products repo.ProductRepository,
	sessions repo.SessionRepository,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		tx:        tx,
		cartItems: cartItems,
		products:  products,
		sessions:  sessions,
	}
}

type ConfirmInput struct {
	PaymentMethod string
}

type ConfirmOutput struct {
	PaymentMethod string            `json:"payment_method"`
	Total         float64           `json:"total"`
	Items         []OrderItemOutput `json:"items"`
}

type OrderItemOutput struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int64   `json:"quantity"`
}

type OrderOutput struct {
	ID          int64             `json:"id"`
	OrderNumber string            `json:"order_number"`
	UserID      int64             `json:"user_id"`
	Status      string            `json:"status"`
	TotalAmount float64           `json:"total_amount"`
	Shipping    float64           `json:"shipping"`
	CreatedAt   time.Time         `json:"created_at"`
	Items       []OrderItemOutput `json:"items"`
}

// Confirm は確定前の確認。カートが空なら進めない。
// 支払い方法は card / cod だけ受け付け、選択をセッションに置く（1回使い切り）。
func (u *CheckoutUsecase) Confirm(ctx context.Context, userID int64, sess *model.Session, in ConfirmInput) (ConfirmOutput, error) {
	if userID <= 0 {
		return ConfirmOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, err := u.cartItems.ListByUserID(ctx, userID)
	if err != nil {
		return ConfirmOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(items) == 0 {
		return ConfirmOutput{}, NewHTTPError(http.StatusBadRequest, "your cart is empty")
	}

	method := strings.TrimSpace(in.PaymentMethod)
	if method != PaymentMethodCard && method != PaymentMethodCOD {
		return ConfirmOutput{}, NewHTTPError(http.StatusBadRequest, "please select a payment method")
	}

	if err := u.sessions.SetPaymentMethod(ctx, sess.ID, method); err != nil {
		return ConfirmOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	sess.PaymentMethod = method

	snapshot, total, err := snapshotCartItems(ctx, u.products, userID, items)
	if err != nil {
		return ConfirmOutput{}, err
	}

	return ConfirmOutput{
		PaymentMethod: method,
		Total:         total,
		Items:         toOrderItemOutputs(snapshot),
	}, nil
}

// Commit はチェックアウト確定。全体を1トランザクションにして、
// 失敗時は何も残らない（注文とカートの食い違いを作らない）。
func (u *CheckoutUsecase) Commit(ctx context.Context, userID int64, sess *model.Session) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 行ロック付きで取り直す。同一ユーザーの同時コミットはここで直列化される。
		items, err := r.CartItems().ListByUserIDForUpdate(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(items) == 0 {
			return NewHTTPError(http.StatusBadRequest, "your cart is empty")
		}

		// 支払い方法をセッションからpopする。
		// 未選択（直接アクセスや二重送信）はconfirmへ戻す。
		method := sess.PaymentMethod
		if method == "" {
			return NewHTTPError(http.StatusConflict, "please confirm your order first")
		}
		if err := r.Sessions().SetPaymentMethod(ctx, sess.ID, ""); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// 合計はconfirm時の値ではなく今のカートから再計算する
		snapshot, total, err := snapshotCartItems(ctx, r.Products(), userID, items)
		if err != nil {
			return err
		}

		status := model.OrderStatusAwaitingPayment
		if method == PaymentMethodCOD {
			status = model.OrderStatusProcessing
		}

		order := model.Order{
			UserID:      userID,
			TotalAmount: total,
			Shipping:    0,
			Status:      status,
		}

		// order_numberの衝突は一意制約に任せて、当たったら採番し直す
		var orderID int64
		for attempt := 0; ; attempt++ {
			order.OrderNumber = newOrderNumber()
			orderID, err = r.Orders().Create(ctx, order)
			if err == nil {
				break
			}
			if errors.Is(err, gorm.ErrDuplicatedKey) && attempt < orderNumberRetries {
				continue
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, snapshot); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// カートは全部捌く（部分的に残さない）
		if err := r.CartItems().DeleteByUserID(ctx, userID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// カードは即時決済扱い（決済実行はスコープ外のシミュレーション）
		if method == PaymentMethodCard {
			if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatusPaid); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			order.Status = model.OrderStatusPaid
		}

		order.ID = orderID
		out = toOrderOutput(order, snapshot)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	sess.PaymentMethod = ""
	return out, nil
}

func (u *CheckoutUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *CheckoutUsecase) GetMyOrder(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != userID {
			//他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// カート行を確定時点の明細スナップショットに起こす。
// 参照切れの商品は0円・空名で数える（cart合計と同じルール）。
func snapshotCartItems(ctx context.Context, products repo.ProductRepository, userID int64, items []model.CartItem) ([]model.OrderItem, float64, error) {
	snapshot := make([]model.OrderItem, 0, len(items))
	var total float64

	for _, item := range items {
		oi := model.OrderItem{
			ProductID: item.ProductID,
			UserID:    userID,
			Quantity:  item.Quantity,
		}

		p, err := products.FindByID(ctx, item.ProductID)
		switch {
		case err == nil:
			oi.ProductName = p.Name
			oi.UnitPrice = p.Price
		case errors.Is(err, repo.ErrNotFound):
			// 0円のまま
		default:
			return nil, 0, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		total += oi.UnitPrice * float64(oi.Quantity)
		snapshot = append(snapshot, oi)
	}

	return snapshot, total, nil
}

// ORD- + 16進10桁（大文字）
func newOrderNumber() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ORD-" + strings.ToUpper(hex[:10])
}

func toOrderItemOutputs(items []model.OrderItem) []OrderItemOutput {
	outs := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outs = append(outs, OrderItemOutput{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
		})
	}
	return outs
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	return OrderOutput{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		Shipping:    o.Shipping,
		CreatedAt:   o.CreatedAt,
		Items:       toOrderItemOutputs(items),
	}
}

package usecase

import (
	"context"
	"net/http"
	"regexp"
	"testing"

	"myshop/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func newCheckoutUsecaseForTest() (*CheckoutUsecase, fakeTxRepos) {
	repos := fakeTxRepos{
		orders:     new(MockOrderRepository),
		orderItems: new(MockOrderItemRepository),
		cartItems:  new(MockCartItemRepository),
		products:   new(MockProductRepository),
		sessions:   new(MockSessionRepository),
	}
	uc := NewCheckoutUsecase(&fakeTxManager{repos: repos}, repos.cartItems, repos.products, repos.sessions)
	return uc, repos
}

func TestConfirm_EmptyCart(t *testing.T) {
	uc, repos := newCheckoutUsecaseForTest()
	ctx := context.Background()
	sess := &model.Session{ID: "sess-1"}

	repos.cartItems.On("ListByUserID", ctx, int64(1)).Return([]model.CartItem{}, nil)

	_, err := uc.Confirm(ctx, 1, sess, ConfirmInput{PaymentMethod: PaymentMethodCard})

	httpErr, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "your cart is empty", httpErr.Message)
}

func TestConfirm_RejectsUnknownPaymentMethod(t *testing.T) {
	uc, repos := newCheckoutUsecaseForTest()
	ctx := context.Background()
	sess := &model.Session{ID: "sess-1"}

	repos.cartItems.On("ListByUserID", ctx, int64(1)).
		Return([]model.CartItem{{ID: 1, UserID: 1, ProductID: 10, Quantity: 1}}, nil)

	_, err := uc.Confirm(ctx, 1, sess, ConfirmInput{PaymentMethod: "bitcoin"})

	httpErr, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	repos.sessions.AssertNotCalled(t, "SetPaymentMethod", mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirm_StoresPaymentMethodInSession(t *testing.T) {
	uc, repos := newCheckoutUsecaseForTest()
	ctx := context.Background()
	sess := &model.Session{ID: "sess-1"}

	repos.cartItems.On("ListByUserID", ctx, int64(1)).Return([]model.CartItem{
		{ID: 1, UserID: 1, ProductID: 10, Quantity: 2},
		{ID: 2, UserID: 1, ProductID: 20, Quantity: 1},
	}, nil)
	repos.sessions.On("SetPaymentMethod", ctx, "sess-1", PaymentMethodCOD).Return(nil)
	repos.products.On("FindByID", ctx, int64(10)).
		Return(model.Product{ID: 10, Name: "Laptop", Price: 10.0}, nil)
	repos.products.On("FindByID", ctx, int64(20)).
		Return(model.Product{ID: 20, Name: "Mouse", Price: 5.0}, nil)

	out, err := uc.Confirm(ctx, 1, sess, ConfirmInput{PaymentMethod: PaymentMethodCOD})

	assert.NoError(t, err)
	assert.Equal(t, PaymentMethodCOD, out.PaymentMethod)
	assert.Equal(t, PaymentMethodCOD, sess.PaymentMethod)
	assert.Equal(t, 25.0, out.Total)
	assert.Len(t, out.Items, 2)
	repos.sessions.AssertExpectations(t)
}

// confirmを踏まずに叩いたら409でconfirmへ戻す
func TestCommit_WithoutConfirmIsConflict(t *testing.T) {
	uc, repos := newCheckoutUsecaseForTest()
	ctx := context.Background()
	sess := &model.Session{ID: "sess-1", PaymentMethod: ""}

	repos.cartItems.On("ListByUserIDForUpdate", ctx, int64(1)).
		Return([]model.CartItem{{ID: 1, UserID: 1, ProductID: 10, Quantity: 1}}, nil)

	_, err := uc.Commit(ctx, 1, sess)

	httpErr, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, httpErr.Status)
	repos.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCommit_EmptyCart(t *testing.T) {
	uc, repos := newCheckoutUsecaseForTest()
	ctx := context.Background()
	sess := &model.Session{ID: "sess-1", PaymentMethod: PaymentMethodCOD}

	repos.cartItems.On("ListByUserIDForUpdate", ctx, int64(1)).Return([]model.CartItem{}, nil)

	_, err := uc.Commit(ctx, 1, sess)

	httpErr, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}

// 代引きの一連の確定。明細スナップショット・カート全削除・
// 支払い方法のpopまでを通しで確認する。
func TestCommit_CashOnDelivery(t *testing.T) {
	uc, repos := newCheckoutUsecaseForTest()
	ctx := context.Background()
	sess := &model.Session{ID: "sess-1", PaymentMethod: PaymentMethodCOD}

	repos.cartItems.On("ListByUserIDForUpdate", ctx, int64(1)).Return([]model.CartItem{
		{ID: 1, UserID: 1, ProductID: 10, Quantity: 2},
		{ID: 2, UserID: 1, ProductID: 20, Quantity: 1},
	}, nil)
	repos.sessions.On("SetPaymentMethod", ctx, "sess-1", "").Return(nil)
	repos.products.On("FindByID", ctx, int64(10)).
		Return(model.Product{ID: 10, Name: "Laptop", Price: 10.0}, nil)
	repos.products.On("FindByID", ctx, int64(20)).
		Return(model.Product{ID: 20, Name: "Mouse", Price: 5.0}, nil)
	repos.orders.On("Create", ctx, mock.MatchedBy(func(o model.Order) bool {
		return o.UserID == 1 && o.TotalAmount == 25.0 && o.Status == model.OrderStatusProcessing
	})).Return(int64(42), nil)
	repos.orderItems.On("CreateBulk", ctx, int64(42), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 2 && items[0].ProductName == "Laptop" && items[0].UnitPrice == 10.0
	})).Return(nil)
	repos.cartItems.On("DeleteByUserID", ctx, int64(1)).Return(nil)

	out, err := uc.Commit(ctx, 1, sess)

	assert.NoError(t, err)
	assert.Equal(t, int64(42), out.ID)
	assert.Equal(t, string(model.OrderStatusProcessing), out.Status)
	assert.Equal(t, 25.0, out.TotalAmount)
	assert.Len(t, out.Items, 2)
	// 支払い方法は使い切り
	assert.Equal(t, "", sess.PaymentMethod)
	repos.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	repos.cartItems.AssertExpectations(t)
	repos.orderItems.AssertExpectations(t)
}

// カードは同一トランザクション内でPaidまで進む
func TestCommit_CardIsMarkedPaid(t *testing.T) {
	uc, repos := newCheckoutUsecaseForTest()
	ctx := context.Background()
	sess := &model.Session{ID: "sess-1", PaymentMethod: PaymentMethodCard}

	repos.cartItems.On("ListByUserIDForUpdate", ctx, int64(1)).
		Return([]model.CartItem{{ID: 1, UserID: 1, ProductID: 10, Quantity: 1}}, nil)
	repos.sessions.On("SetPaymentMethod", ctx, "sess-1", "").Return(nil)
	repos.products.On("FindByID", ctx, int64(10)).
		Return(model.Product{ID: 10, Name: "Laptop", Price: 10.0}, nil)
	repos.orders.On("Create", ctx, mock.MatchedBy(func(o model.Order) bool {
		return o.Status == model.OrderStatusAwaitingPayment
	})).Return(int64(42), nil)
	repos.orderItems.On("CreateBulk", ctx, int64(42), mock.Anything).Return(nil)
	repos.cartItems.On("DeleteByUserID", ctx, int64(1)).Return(nil)
	repos.orders.On("UpdateStatus", ctx, int64(42), model.OrderStatusPaid).Return(nil)

	out, err := uc.Commit(ctx, 1, sess)

	assert.NoError(t, err)
	assert.Equal(t, string(model.OrderStatusPaid), out.Status)
	repos.orders.AssertExpectations(t)
}

// 合計はconfirm時ではなく確定時の価格で計算される
func TestCommit_RecomputesTotalAtCommitTime(t *testing.T) {
	uc, repos := newCheckoutUsecaseForTest()
	ctx := context.Background()
	sess := &model.Session{ID: "sess-1", PaymentMethod: PaymentMethodCOD}

	repos.cartItems.On("ListByUserIDForUpdate", ctx, int64(1)).
		Return([]model.CartItem{{ID: 1, UserID: 1, ProductID: 10, Quantity: 2}}, nil)
	repos.sessions.On("SetPaymentMethod", ctx, "sess-1", "").Return(nil)
	// confirm後に値上げされた想定
	repos.products.On("FindByID", ctx, int64(10)).
		Return(model.Product{ID: 10, Name: "Laptop", Price: 999.0}, nil)
	repos.orders.On("Create", ctx, mock.MatchedBy(func(o model.Order) bool {
		return o.TotalAmount == 1998.0
	})).Return(int64(1), nil)
	repos.orderItems.On("CreateBulk", ctx, int64(1), mock.Anything).Return(nil)
	repos.cartItems.On("DeleteByUserID", ctx, int64(1)).Return(nil)

	out, err := uc.Commit(ctx, 1, sess)

	assert.NoError(t, err)
	assert.Equal(t, 1998.0, out.TotalAmount)
}

// order_numberの衝突は採番し直して成功する
func TestCommit_RetriesOnDuplicateOrderNumber(t *testing.T) {
	uc, repos := newCheckoutUsecaseForTest()
	ctx := context.Background()
	sess := &model.Session{ID: "sess-1", PaymentMethod: PaymentMethodCOD}

	repos.cartItems.On("ListByUserIDForUpdate", ctx, int64(1)).
		Return([]model.CartItem{{ID: 1, UserID: 1, ProductID: 10, Quantity: 1}}, nil)
	repos.sessions.On("SetPaymentMethod", ctx, "sess-1", "").Return(nil)
	repos.products.On("FindByID", ctx, int64(10)).
		Return(model.Product{ID: 10, Name: "Laptop", Price: 10.0}, nil)
	repos.orders.On("Create", ctx, mock.Anything).Return(int64(0), gorm.ErrDuplicatedKey).Once()
	repos.orders.On("Create", ctx, mock.Anything).Return(int64(7), nil).Once()
	repos.orderItems.On("CreateBulk", ctx, int64(7), mock.Anything).Return(nil)
	repos.cartItems.On("DeleteByUserID", ctx, int64(1)).Return(nil)

	out, err := uc.Commit(ctx, 1, sess)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), out.ID)
	repos.orders.AssertNumberOfCalls(t, "Create", 2)
}

func TestNewOrderNumber_Format(t *testing.T) {
	re := regexp.MustCompile(`^ORD-[0-9A-F]{10}$`)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		n := newOrderNumber()
		assert.Regexp(t, re, n)
		seen[n] = true
	}
	// 50回で全部ユニークなら採番としてはまず問題ない
	assert.Len(t, seen, 50)
}

func TestGetMyOrder_OtherUsersOrderIsNotFound(t *testing.T) {
	uc, repos := newCheckoutUsecaseForTest()
	ctx := context.Background()

	repos.orders.On("FindByID", ctx, int64(42)).
		Return(model.Order{ID: 42, UserID: 2, OrderNumber: "ORD-AAAAAAAAAA"}, nil)

	_, err := uc.GetMyOrder(ctx, 1, 42)

	httpErr, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "not found", httpErr.Message)
	repos.orderItems.AssertNotCalled(t, "ListByOrderID", mock.Anything, mock.Anything)
}

func TestListMyOrders(t *testing.T) {
	uc, repos := newCheckoutUsecaseForTest()
	ctx := context.Background()

	repos.orders.On("ListByUserID", ctx, int64(1)).Return([]model.Order{
		{ID: 1, UserID: 1, OrderNumber: "ORD-AAAAAAAAAA", Status: model.OrderStatusPaid, TotalAmount: 10},
		{ID: 2, UserID: 1, OrderNumber: "ORD-BBBBBBBBBB", Status: model.OrderStatusProcessing, TotalAmount: 20},
	}, nil)
	repos.orderItems.On("ListByOrderID", ctx, int64(1)).
		Return([]model.OrderItem{{OrderID: 1, ProductName: "Laptop", UnitPrice: 10, Quantity: 1}}, nil)
	repos.orderItems.On("ListByOrderID", ctx, int64(2)).
		Return([]model.OrderItem{{OrderID: 2, ProductName: "Mouse", UnitPrice: 20, Quantity: 1}}, nil)

	outs, err := uc.ListMyOrders(ctx, 1)

	assert.NoError(t, err)
	assert.Len(t, outs, 2)
	assert.Equal(t, "ORD-AAAAAAAAAA", outs[0].OrderNumber)
	assert.Len(t, outs[0].Items, 1)
}

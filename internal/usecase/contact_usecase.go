package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"myshop/internal/mail"
)

// ContactUsecase はお問い合わせフォーム。受け取った内容を店舗の
// 受信箱へ転送するだけ。
type ContactUsecase struct {
	mailer mail.Mailer
	inbox  string
}

func NewContactUsecase(mailer mail.Mailer, inbox string) *ContactUsecase {
	return &ContactUsecase{mailer: mailer, inbox: inbox}
}

type ContactInput struct {
	Email   string
	Message string
}

func (u *ContactUsecase) Send(ctx context.Context, in ContactInput) error {
	if strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Message) == "" {
		return NewHTTPError(http.StatusBadRequest, "please enter both email and message")
	}

	body := fmt.Sprintf("New contact form submission from MyShop:\n\nFrom: %s\nMessage:\n%s", in.Email, in.Message)
	// 配送失敗はユーザーには見せない
	_ = u.mailer.Send("New Contact Message - MyShop", u.inbox, body)
	return nil
}

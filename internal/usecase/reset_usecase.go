package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"myshop/internal/domain/model"
	"myshop/internal/mail"
	"myshop/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// リセットコードの有効期限
const resetCodeTTL = 10 * time.Minute

// アカウントの有無にかかわらず同じ返事（存在を漏らさない）
const ResetRequestedMessage = "If an account exists, a verification code has been sent to your email."

// PasswordResetUsecase は forgot-password → verify-code → reset-password の
// 3段階フロー。チャレンジはセッションに置き、成功時に全部消す。
type PasswordResetUsecase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	mailer   mail.Mailer
	clock    Clock
	codes    CodeGenerator
}

func NewPasswordResetUsecase(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	mailer mail.Mailer,
	clock Clock,
	codes CodeGenerator,
) *PasswordResetUsecase {
	return &PasswordResetUsecase{
		users:    users,
		sessions: sessions,
		mailer:   mailer,
		clock:    clock,
		codes:    codes,
	}
}

// Request はコード発行。ユーザーがいてもいなくても応答は同じ。
func (u *PasswordResetUsecase) Request(ctx context.Context, sess *model.Session, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return NewHTTPError(http.StatusBadRequest, "email is required")
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		// 存在を漏らさないため、ここで分岐が見えてはいけない
		return nil
	}

	code := u.codes.NewCode()
	expiry := u.clock.Now().Add(resetCodeTTL)

	if err := u.sessions.SaveReset(ctx, sess.ID, email, code, expiry); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	sess.ResetEmail = email
	sess.ResetCode = code
	sess.ResetExpiry = &expiry

	body := fmt.Sprintf(
		"Your password reset code is: %s\n\nThis code will expire in 10 minutes.\nIf you did not request this, please ignore this email.",
		code,
	)
	// 送信失敗はmailer側でログに残る。フローは止めない。
	_ = u.mailer.Send("MyShop Password Reset Code", user.Email, body)

	return nil
}

// Verify はコード照合。完全一致かつ期限内のときだけ通す。
func (u *PasswordResetUsecase) Verify(ctx context.Context, sess *model.Session, code string) error {
	code = strings.TrimSpace(code)

	if sess.ResetCode == "" || sess.ResetExpiry == nil {
		return NewHTTPError(http.StatusGone, "no code found, please request a new one")
	}
	if u.clock.Now().After(*sess.ResetExpiry) {
		return NewHTTPError(http.StatusGone, "your verification code has expired, please request a new one")
	}
	if code != sess.ResetCode {
		// 不一致はやり直し可能（セッションは消さない）
		return NewHTTPError(http.StatusBadRequest, "invalid verification code")
	}
	return nil
}

type ResetPasswordInput struct {
	NewPassword     string
	ConfirmPassword string
}

// Reset はパスワード変更。セッションのemailが無ければ最初からやり直し。
func (u *PasswordResetUsecase) Reset(ctx context.Context, sess *model.Session, in ResetPasswordInput) error {
	if sess.ResetEmail == "" {
		return NewHTTPError(http.StatusGone, "session expired, please restart the password reset process")
	}

	if in.NewPassword == "" || in.NewPassword != in.ConfirmPassword {
		// セッションは保持したまま再入力させる
		return NewHTTPError(http.StatusBadRequest, "passwords do not match")
	}

	user, err := u.users.FindByEmail(ctx, sess.ResetEmail)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	user.PasswordHash = string(pwHash)

	if err := u.users.Update(ctx, user); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// 成功したらリセット関連のキーは全部消す
	if err := u.sessions.ClearReset(ctx, sess.ID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	sess.ResetEmail = ""
	sess.ResetCode = ""
	sess.ResetExpiry = nil

	return nil
}

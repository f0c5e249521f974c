package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"myshop/internal/config"
	"myshop/internal/domain/model"
	"myshop/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// refreshtokenの有効期限
const refreshTokenTTL = 14 * 24 * time.Hour

type AuthUsecase struct {
	cfg    *config.Config
	users  repository.UserRepository
	rtRepo repository.RefreshTokenRepository
	clock  Clock
}

func NewAuthUsecase(
	cfg *config.Config,
	users repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
	clock Clock,
) *AuthUsecase {
	return &AuthUsecase{
		cfg:    cfg,
		users:  users,
		rtRepo: rtRepo,
		clock:  clock,
	}
}

type UserDTO struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Country   string `json:"country"`
	Province  string `json:"province"`
	City      string `json:"city"`
	Address   string `json:"address"`
	ZipCode   string `json:"zip_code"`
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Country   string
	Province  string
	City      string
	Address   string
	ZipCode   string
}

type LoginInput struct {
	Email    string
	Password string
}

type TokenDTO struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type LoginResult struct {
	User              UserDTO
	Token             TokenDTO
	RefreshTokenPlain string
	RefreshExpiresAt  time.Time
}

type ProfileInput struct {
	FirstName string
	LastName  string
	Phone     string
}

type LocationInput struct {
	Country  string
	Province string
	City     string
	Address  string
	ZipCode  string
}

// Register は会員登録。email重複は既存ユーザーを漏らさない程度の409。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (*UserDTO, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "email and password are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid email")
	}

	existing, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if existing != nil {
		return nil, NewHTTPError(http.StatusConflict, "email already registered")
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(pwHash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Country:      in.Country,
		Province:     in.Province,
		City:         in.City,
		Address:      in.Address,
		ZipCode:      in.ZipCode,
	}

	if err := u.users.Create(ctx, user); err != nil {
		return nil, NewHTTPError(http.StatusConflict, "email already registered")
	}

	dto := toUserDTO(user)
	return &dto, nil
}

// Login は認証。どこで失敗したかは返さない（常に同じ401）。
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput, userAgent string) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	//パスワード照合（bcrypt）
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	accessToken, expiresIn, err := u.issueAccessToken(user)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	//refresh token発行（DBにはhash保存）
	refreshPlain, refreshHash, err := newRandomTokenAndHash()
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	expiresAt := u.clock.Now().Add(refreshTokenTTL)
	rt := &model.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: refreshHash,
		UserAgent: userAgent,
		ExpiresAt: expiresAt,
	}
	if err := u.rtRepo.Create(ctx, rt); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return &LoginResult{
		User:              toUserDTO(user),
		Token:             TokenDTO{AccessToken: accessToken, ExpiresIn: expiresIn},
		RefreshTokenPlain: refreshPlain,
		RefreshExpiresAt:  expiresAt,
	}, nil
}

// Refresh はrefresh tokenのローテーション。使用済み・失効・期限切れは401。
func (u *AuthUsecase) Refresh(ctx context.Context, refreshPlain string, userAgent string) (*LoginResult, error) {
	if strings.TrimSpace(refreshPlain) == "" {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	rt, err := u.rtRepo.FindByHash(ctx, hashToken(refreshPlain))
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	now := u.clock.Now()
	if rt == nil || rt.UsedAt != nil || rt.RevokedAt != nil || now.After(rt.ExpiresAt) {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.users.FindByID(ctx, rt.UserID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	//旧tokenは使用済みにして新しいtokenへ差し替える
	if err := u.rtRepo.MarkUsed(ctx, rt.ID); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	accessToken, expiresIn, err := u.issueAccessToken(user)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	newPlain, newHash, err := newRandomTokenAndHash()
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	expiresAt := now.Add(refreshTokenTTL)
	next := &model.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: newHash,
		UserAgent: userAgent,
		ExpiresAt: expiresAt,
	}
	if err := u.rtRepo.Create(ctx, next); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return &LoginResult{
		User:              toUserDTO(user),
		Token:             TokenDTO{AccessToken: accessToken, ExpiresIn: expiresIn},
		RefreshTokenPlain: newPlain,
		RefreshExpiresAt:  expiresAt,
	}, nil
}

func (u *AuthUsecase) Logout(ctx context.Context, refreshPlain string) error {
	if strings.TrimSpace(refreshPlain) == "" {
		return nil
	}
	rt, err := u.rtRepo.FindByHash(ctx, hashToken(refreshPlain))
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if rt == nil {
		return nil
	}
	if err := u.rtRepo.Revoke(ctx, rt.ID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *AuthUsecase) Me(ctx context.Context, userID int64) (*UserDTO, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return nil, NewHTTPError(http.StatusNotFound, "not found")
	}
	dto := toUserDTO(user)
	return &dto, nil
}

// UpdateProfile は自分のプロフィールだけ上書きできる。
func (u *AuthUsecase) UpdateProfile(ctx context.Context, userID int64, in ProfileInput) (*UserDTO, error) {
	user, err := u.loadOwn(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Phone = in.Phone

	if err := u.users.Update(ctx, user); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	dto := toUserDTO(user)
	return &dto, nil
}

func (u *AuthUsecase) UpdateLocation(ctx context.Context, userID int64, in LocationInput) (*UserDTO, error) {
	user, err := u.loadOwn(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Country = in.Country
	user.Province = in.Province
	user.City = in.City
	user.Address = in.Address
	user.ZipCode = in.ZipCode

	if err := u.users.Update(ctx, user); err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	dto := toUserDTO(user)
	return &dto, nil
}

func (u *AuthUsecase) loadOwn(ctx context.Context, userID int64) (*model.User, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return nil, NewHTTPError(http.StatusNotFound, "not found")
	}
	return user, nil
}

// access token発行（HS256）
func (u *AuthUsecase) issueAccessToken(user *model.User) (string, int, error) {
	ttl := time.Duration(u.cfg.JWT.AccessExpiry) * time.Minute
	now := u.clock.Now()

	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(user.ID, 10),
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(u.cfg.JWT.Secret))
	if err != nil {
		return "", 0, err
	}

	return signed, int(ttl.Seconds()), nil
}

// ランダムtokenとそのhashを作る。平文はcookieへ、hashだけDBへ。
func newRandomTokenAndHash() (plain string, hash string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	plain = base64.RawURLEncoding.EncodeToString(buf)
	return plain, hashToken(plain), nil
}

func hashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Country:   u.Country,
		Province:  u.Province,
		City:      u.City,
		Address:   u.Address,
		ZipCode:   u.ZipCode,
	}
}

package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	"app/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

var (
	//400 入力不足
	ErrValidation = errors.New("validation error")
	//400 認証失敗（emailの有無を悟らせない）
	ErrInvalidCredentials = errors.New("invalid credentials")
	//409 email使用済み
	ErrEmailAlreadyUsed = errors.New("email already registered")
)

// JWTの発行はmainで実装を注入する
type TokenIssuer interface {
	Issue(userID string, email string, role model.Role, now time.Time) (string, time.Time, error)
}

type UserDTO struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Role     string `json:"role"`
}

type RegisterInput struct {
	FullName string
	Email    string
	Phone    string
	Address  string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthOutput struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

type AuthUsecase struct {
	users  repository.UserRepository
	issuer TokenIssuer
	idGen  IDGenerator
	clock  Clock
}

func NewAuthUsecase(users repository.UserRepository, issuer TokenIssuer, idGen IDGenerator, clock Clock) *AuthUsecase {
	return &AuthUsecase{users: users, issuer: issuer, idGen: idGen, clock: clock}
}

const bcryptCost = 10

// Register は会員登録してトークンを返す
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (AuthOutput, error) {
	email := strings.TrimSpace(in.Email)
	if in.FullName == "" || email == "" || len(in.Password) < 8 {
		return AuthOutput{}, NewHTTPError(http.StatusBadRequest, ErrValidation.Error())
	}

	existing, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return AuthOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if existing != nil {
		return AuthOutput{}, NewHTTPError(http.StatusConflict, ErrEmailAlreadyUsed.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return AuthOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	now := u.clock.Now()
	user := model.User{
		ID:           u.idGen.NewID(),
		FullName:     in.FullName,
		Email:        email,
		Phone:        in.Phone,
		Address:      in.Address,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := u.users.Create(ctx, &user); err != nil {
		return AuthOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	token, _, err := u.issuer.Issue(user.ID, user.Email, user.Role, now)
	if err != nil {
		return AuthOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return AuthOutput{User: toUserDTO(user), Token: token}, nil
}

// Login はemail/passwordを検証してトークンを返す
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (AuthOutput, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return AuthOutput{}, NewHTTPError(http.StatusBadRequest, ErrValidation.Error())
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return AuthOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return AuthOutput{}, NewHTTPError(http.StatusBadRequest, ErrInvalidCredentials.Error())
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return AuthOutput{}, NewHTTPError(http.StatusBadRequest, ErrInvalidCredentials.Error())
	}

	token, _, err := u.issuer.Issue(user.ID, user.Email, user.Role, u.clock.Now())
	if err != nil {
		return AuthOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return AuthOutput{User: toUserDTO(*user), Token: token}, nil
}

func toUserDTO(u model.User) UserDTO {
	return UserDTO{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email,
		Phone:    u.Phone,
		Address:  u.Address,
		Role:     string(u.Role),
	}
}

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/onyx/internal/model"
	"github.com/d60-Lab/onyx/internal/repository"
)

// TokenIssuer 签发访问令牌；auth.TokenManager 实现
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
}

// UserService 注册/登录/资料（薄封装）
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, string, error)
	Login(ctx context.Context, username, password string) (*model.User, string, error)
	Profile(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (*model.User, error)
}

// UpdateProfileInput nil 表示不修改
type UpdateProfileInput struct {
	DisplayName *string
	AvatarURL   *string
}

type userService struct {
	users  repository.UserRepository
	tokens TokenIssuer
	cost   int
}

func NewUserService(users repository.UserRepository, tokens TokenIssuer, cost int) UserService {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &userService{users: users, tokens: tokens, cost: cost}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*model.User, string, error) {
	username := strings.TrimSpace(in.Username)
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, "", ErrUserExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, "", err
	}
	display := in.DisplayName
	if display == "" {
		display = username
	}
	u := &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		DisplayName:  display,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// 邮箱唯一约束冲突
		if isUniqueViolation(err) {
			return nil, "", ErrUserExists
		}
		return nil, "", err
	}
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *userService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	u, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *userService) Profile(ctx context.Context, id string) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *userService) UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (*model.User, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	if in.DisplayName != nil {
		name := strings.TrimSpace(*in.DisplayName)
		in.DisplayName = &name
	}
	u, err := s.users.UpdateProfile(ctx, id, in.DisplayName, in.AvatarURL)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

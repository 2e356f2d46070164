package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vibast-solutions/ms-go-donations/app/entity"
	"github.com/vibast-solutions/ms-go-donations/app/types"
	"github.com/vibast-solutions/ms-go-donations/config"
	"golang.org/x/crypto/bcrypt"
)

const tokenIssuer = "donations-service"

// Claims is the payload of an admin access token.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type userRepository interface {
	crudRepository[entity.User]
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

type AuthService struct {
	userRepo userRepository
	secret   []byte
	ttl      time.Duration
}

func NewAuthService(userRepo userRepository, cfg config.AuthConfig) *AuthService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &AuthService{
		userRepo: userRepo,
		secret:   []byte(cfg.JWTSecret),
		ttl:      ttl,
	}
}

func (s *AuthService) Login(ctx context.Context, req *types.LoginRequest) (*types.LoginResponse, error) {
	if len(s.secret) == 0 {
		return nil, errors.New("jwt secret is not configured")
	}

	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(user.ID, 10),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &types.LoginResponse{Token: signed, ExpiresAt: expiresAt, User: user}, nil
}

func (s *AuthService) ParseToken(tokenString string) (*Claims, error) {
	if len(s.secret) == 0 || strings.TrimSpace(tokenString) == "" {
		return nil, ErrUnauthorized
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

// Authenticate validates the token and reloads its user, so the returned role is
// the one currently stored. Deleted users and changed emails are unauthorized.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return nil, ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || !strings.EqualFold(user.Email, claims.Email) {
		return nil, ErrUnauthorized
	}

	claims.Role = user.Role
	return claims, nil
}

// CreateAdmin seeds an admin account, or promotes and resets an existing one.
func (s *AuthService) CreateAdmin(ctx context.Context, name, email, password string) (*entity.User, error) {
	payload := &types.UserPayload{Name: name, Email: email, Password: password, Role: entity.UserRoleAdmin}
	if err := payload.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if payload.Password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidRequest)
	}

	users := NewUserService(s.userRepo)
	existing, err := s.userRepo.FindByEmail(ctx, payload.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return users.Update(ctx, existing.ID, payload)
	}
	return users.Create(ctx, payload)
}

func NewUserService(repo crudRepository[entity.User]) *CRUDService[entity.User] {
	svc := newCRUDService("user", repo, func(u *entity.User, now time.Time, creating bool) {
		stamp(&u.CreatedAt, &u.UpdatedAt, now, creating)
	})
	svc.prepare = hashUserPassword
	return svc
}

type passwordPayload interface {
	PlainPassword() string
}

func hashUserPassword(_ context.Context, user *entity.User, payload types.EntityPayload[entity.User], creating bool) error {
	password := ""
	if p, ok := payload.(passwordPayload); ok {
		password = p.PlainPassword()
	}
	if password == "" {
		if creating {
			return fmt.Errorf("%w: password is required", ErrInvalidRequest)
		}
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	return nil
}

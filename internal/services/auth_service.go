package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wtch/internal/models"
	"wtch/internal/repositories"
	"wtch/pkg/logger"
	"wtch/pkg/tokenstore"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Claims is the verified content of a bearer token.
type Claims struct {
	UserID    string
	Username  string
	Role      models.Role
	TokenID   string
	ExpiresAt time.Time
}

// IsAdmin reports whether the token belongs to an admin.
func (c Claims) IsAdmin() bool {
	return c.Role == models.RoleAdmin
}

// AuthService handles registration, login, logout and token validation.
type AuthService struct {
	repos      *repositories.Repositories
	tokens     tokenstore.Store
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService. A zero ttl means 24 hours.
func NewAuthService(repos *repositories.Repositories, tokens tokenstore.Store, jwtSecret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		repos:      repos,
		tokens:     tokens,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: ttl,
	}
}

// RegisterUser creates a customer account together with its cart and returns a token.
func (s *AuthService) RegisterUser(ctx context.Context, user *models.User) (string, error) {
	if err := s.ensureAvailable(ctx, user.Username, user.Email); err != nil {
		return "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)
	user.Role = models.RoleCustomer

	err = s.repos.WithTx(ctx, func(tx *repositories.Repositories) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}
		return tx.Carts.Create(ctx, &models.Cart{UserID: user.ID})
	})
	if err != nil {
		return "", fmt.Errorf("failed to register user: %w", err)
	}

	return s.issueToken(user)
}

func (s *AuthService) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := s.repos.Users.GetByUsername(ctx, username); err == nil {
		return fmt.Errorf("username '%s': %w", username, ErrUsernameTaken)
	} else if !errors.Is(err, repositories.ErrRecordNotFound) {
		return err
	}
	if _, err := s.repos.Users.GetByEmail(ctx, email); err == nil {
		return fmt.Errorf("email '%s': %w", email, ErrEmailTaken)
	} else if !errors.Is(err, repositories.ErrRecordNotFound) {
		return err
	}
	return nil
}

// EnsureAdmin creates the admin account when no user holds the username yet. Admins have no cart.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	if password == "" {
		return nil
	}
	if _, err := s.repos.Users.GetByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, repositories.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	admin := &models.User{Username: username, Email: email, Password: string(hashedPassword), Role: models.RoleAdmin}
	if err := s.repos.Users.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	logger.L().Info("admin account created", zap.String("username", username))
	return nil
}

// LoginUser authenticates by username or email and returns a JWT token.
func (s *AuthService) LoginUser(ctx context.Context, login, password string) (string, *models.User, error) {
	var (
		user *models.User
		err  error
	)
	if strings.Contains(login, "@") {
		user, err = s.repos.Users.GetByEmail(ctx, login)
	} else {
		user, err = s.repos.Users.GetByUsername(ctx, login)
	}
	if err != nil {
		// Do not reveal whether the account exists.
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"jti":      uuid.New().String(),
		"exp":      now.Add(s.tokenDurat).Unix(),
		"iat":      now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and verifies a token and rejects revoked ones.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	claims.UserID, _ = mapClaims["user_id"].(string)
	claims.Username, _ = mapClaims["username"].(string)
	role, _ := mapClaims["role"].(string)
	claims.Role = models.Role(role)
	claims.TokenID, _ = mapClaims["jti"].(string)
	if exp, ok := mapClaims["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	}
	if claims.UserID == "" || claims.TokenID == "" {
		return nil, fmt.Errorf("%w: missing claims", ErrInvalidToken)
	}

	revoked, err := s.tokens.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: token revoked", ErrInvalidToken)
	}
	return claims, nil
}

// Logout revokes the token until its expiry.
func (s *AuthService) Logout(ctx context.Context, claims *Claims) error {
	if err := s.tokens.Revoke(ctx, claims.TokenID, time.Until(claims.ExpiresAt)); err != nil {
		return fmt.Errorf("failed to logout: %w", err)
	}
	return nil
}

package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/VanillaFroggy/atom-messenger-api/internal/models"
	"github.com/VanillaFroggy/atom-messenger-api/internal/ports"
)

// TokenLifetime bounds both the JWT exp claim and the auth cookie max-age.
const TokenLifetime = 7 * 24 * time.Hour

type AuthService struct {
	userRepo  ports.IUserRepository
	hasher    ports.IHasher
	tokenRepo ports.TokenRepository
	jwtKey    []byte
	logger    *slog.Logger
}

func NewAuthService(repo ports.IUserRepository, hasher ports.IHasher, tokenRepo ports.TokenRepository, jwtKey []byte, logger *slog.Logger) *AuthService {
	return &AuthService{userRepo: repo, hasher: hasher, tokenRepo: tokenRepo, jwtKey: jwtKey, logger: logger}
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if err := models.ValidateUsername(username); err != nil {
		s.logger.Warn("invalid username on registration", "error", err)
		return nil, ErrInvalidInput
	}
	if err := models.ValidatePassword(password); err != nil {
		s.logger.Warn("password policy violation on registration", "username", username)
		return nil, ErrInvalidInput
	}

	existing, err := s.userRepo.GetUserByName(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.logger.Warn("username already exists", "username", username)
		return nil, ErrUsernameTaken
	}

	hashedPassword, err := s.hasher.GenerateFromPassword([]byte(password), s.hasher.DefaultCost())
	if err != nil {
		s.logger.Error("password hashing failed", "error", err)
		return nil, err
	}

	user := models.NewUser(username, string(hashedPassword), models.RoleUser)
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		s.logger.Warn("user creation failed", "error", err)
		return nil, err
	}

	s.logger.Info("user registered", "username", username, "userID", user.ID)
	return user, nil
}

// Authenticate verifies credentials and issues a signed token. A blocked
// account fails exactly like a wrong password.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, string, error) {
	if username == "" || password == "" {
		return nil, "", ErrUnauthorized
	}

	user, err := s.userRepo.GetUserByName(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		s.logger.Warn("user not found", "username", username)
		return nil, "", ErrUnauthorized
	}

	if err := s.hasher.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.logger.Warn("invalid password", "username", username)
		return nil, "", ErrUnauthorized
	}

	if user.Blocked {
		s.logger.Warn("blocked user attempted login", "username", username)
		return nil, "", ErrUnauthorized
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID.String(),
		"iat": now.Unix(),
		"exp": now.Add(TokenLifetime).Unix(),
	})

	tokenString, err := token.SignedString(s.jwtKey)
	if err != nil {
		s.logger.Error("token signing failed", "error", err)
		return nil, "", err
	}

	s.logger.Info("login successful", "username", username)
	return user, tokenString, nil
}

// DecodeToken resolves a token to a user id. An expired, malformed or revoked
// token yields no identity rather than an error; callers check ok.
func (s *AuthService) DecodeToken(ctx context.Context, tokenString string) (uuid.UUID, bool) {
	if tokenString == "" {
		return uuid.Nil, false
	}

	if s.tokenRepo != nil {
		revoked, err := s.tokenRepo.IsRevoked(ctx, hashToken(tokenString))
		if err != nil {
			s.logger.Error("token revocation check failed", "error", err)
			return uuid.Nil, false
		}
		if revoked {
			return uuid.Nil, false
		}
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.jwtKey, nil
	})
	if err != nil || !token.Valid {
		s.logger.Debug("token rejected", "error", err)
		return uuid.Nil, false
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

func (s *AuthService) RevokeToken(ctx context.Context, tokenString string) error {
	if s.tokenRepo == nil {
		return nil
	}
	return s.tokenRepo.Revoke(ctx, hashToken(tokenString), TokenLifetime)
}

func (s *AuthService) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *AuthService) EditUserRole(ctx context.Context, userID uuid.UUID, role models.Role) error {
	if !role.Valid() {
		return ErrInvalidInput
	}

	updated, err := s.userRepo.UpdateUserRole(ctx, userID, role)
	if err != nil {
		return err
	}
	if !updated {
		return ErrUserNotFound
	}

	s.logger.Info("user role updated", "userID", userID, "role", role)
	return nil
}

func (s *AuthService) BlockUser(ctx context.Context, userID uuid.UUID) error {
	blocked, err := s.userRepo.BlockUser(ctx, userID)
	if err != nil {
		return err
	}
	if !blocked {
		return ErrUserNotFound
	}

	s.logger.Info("user blocked", "userID", userID)
	return nil
}

// EnsureAdmin creates the bootstrap ADMIN account on startup when missing.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	existing, err := s.userRepo.GetUserByName(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hashedPassword, err := s.hasher.GenerateFromPassword([]byte(password), s.hasher.DefaultCost())
	if err != nil {
		return err
	}

	admin := models.NewUser(username, string(hashedPassword), models.RoleAdmin)
	if err := s.userRepo.CreateUser(ctx, admin); err != nil {
		return err
	}

	s.logger.Info("admin account created", "username", username)
	return nil
}

func hashToken(tokenString string) string {
	hash := sha256.Sum256([]byte(tokenString))
	return hex.EncodeToString(hash[:])
}

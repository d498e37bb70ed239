package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourorg/library-service/internal/apperr"
	"github.com/yourorg/library-service/internal/config"
	"github.com/yourorg/library-service/internal/model"
	"github.com/yourorg/library-service/internal/repository"
)

const revokedTokenPrefix = "revoked-token:"

// AuthService handles admin accounts and session tokens. Passwords are
// stored only as bcrypt hashes; sessions are HS256 bearer tokens revocable
// through a Redis denylist.
type AuthService struct {
	adminRepo *repository.AdminRepository
	redis     *redis.Client
	cfg       *config.Config
	logger    *zap.Logger
}

// NewAuthService creates a new authentication service. The Redis client may
// be nil, in which case logout revocation is best-effort only.
func NewAuthService(
	adminRepo *repository.AdminRepository,
	redisClient *redis.Client,
	cfg *config.Config,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		adminRepo: adminRepo,
		redis:     redisClient,
		cfg:       cfg,
		logger:    logger,
	}
}

// CreateAdmin stores a new admin account with a bcrypt password hash
func (s *AuthService) CreateAdmin(ctx context.Context, admin *model.AdminCreate) (*model.Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return nil, apperr.Wrap("failed to hash password", err)
	}

	created, err := s.adminRepo.Create(ctx, admin.Username, string(hash))
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Validation("username already in use")
		}
		return nil, apperr.Wrap("failed to create admin", err)
	}

	return created, nil
}

// Login authenticates an admin and issues a bearer token. Every failure maps
// to the same generic message.
func (s *AuthService) Login(ctx context.Context, login *model.AdminLogin) (*model.TokenResponse, error) {
	admin, err := s.adminRepo.GetByUsername(ctx, login.Username)
	if err != nil {
		return nil, apperr.Wrap("failed to look up admin", err)
	}
	if admin == nil {
		return nil, apperr.Auth("Invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(login.Password)); err != nil {
		s.logger.Debug("password verification failed", zap.Error(err))
		return nil, apperr.Auth("Invalid username or password")
	}

	token, expiresAt, err := s.generateToken(admin.ID)
	if err != nil {
		return nil, apperr.Wrap("failed to sign token", err)
	}

	return &model.TokenResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt.Unix(),
		Admin:       *admin,
	}, nil
}

// Logout revokes the presented token. The token goes on the Redis denylist
// until its natural expiry; without Redis the revocation is only logged.
func (s *AuthService) Logout(ctx context.Context, tokenString string, adminID int) error {
	if s.redis == nil {
		s.logger.Info("admin logged out", zap.Int("adminID", adminID))
		return nil
	}

	ttl := s.cfg.Auth.AccessTokenDuration
	if claims, err := s.parseClaims(tokenString); err == nil {
		if exp, ok := claims["exp"].(float64); ok {
			if until := time.Until(time.Unix(int64(exp), 0)); until > 0 {
				ttl = until
			}
		}
	}

	if err := s.redis.Set(ctx, revokedTokenPrefix+tokenString, adminID, ttl).Err(); err != nil {
		s.logger.Error("failed to revoke token", zap.Error(err))
		return apperr.Wrap("failed to revoke token", err)
	}

	s.logger.Info("admin logged out", zap.Int("adminID", adminID))
	return nil
}

// GetAdmin returns an admin by ID
func (s *AuthService) GetAdmin(ctx context.Context, id int) (*model.Admin, error) {
	admin, err := s.adminRepo.Get(ctx, id)
	if err != nil {
		return nil, apperr.Wrap("failed to get admin", err)
	}
	if admin == nil {
		return nil, apperr.NotFound("Admin not found")
	}
	return admin, nil
}

// UpdateAdmin rotates an admin's username and/or password
func (s *AuthService) UpdateAdmin(ctx context.Context, id int, update *model.AdminUpdate) (*model.Admin, error) {
	var hash *string
	if update.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error("failed to hash password", zap.Error(err))
			return nil, apperr.Wrap("failed to hash password", err)
		}
		hashedStr := string(hashed)
		hash = &hashedStr
	}

	admin, err := s.adminRepo.Update(ctx, id, update.Username, hash)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Validation("username already in use")
		}
		return nil, apperr.Wrap("failed to update admin", err)
	}
	if admin == nil {
		return nil, apperr.NotFound("Admin not found")
	}
	return admin, nil
}

// DeleteAdmin hard-deletes an admin account
func (s *AuthService) DeleteAdmin(ctx context.Context, id int) error {
	found, err := s.adminRepo.Delete(ctx, id)
	if err != nil {
		return apperr.Wrap("failed to delete admin", err)
	}
	if !found {
		return apperr.NotFound("Admin not found")
	}
	return nil
}

// ValidateToken checks a bearer token and returns the admin ID it carries.
// Revoked tokens fail validation even before their expiry.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (int, error) {
	if s.redis != nil {
		revoked, err := s.redis.Exists(ctx, revokedTokenPrefix+tokenString).Result()
		if err != nil {
			s.logger.Warn("failed to check token denylist", zap.Error(err))
		} else if revoked > 0 {
			return 0, errors.New("token revoked")
		}
	}

	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return 0, err
	}

	adminIDFloat, ok := claims["sub"].(float64)
	if !ok {
		return 0, errors.New("invalid admin ID in token")
	}

	return int(adminIDFloat), nil
}

func (s *AuthService) parseClaims(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.Auth.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	return claims, nil
}

func (s *AuthService) generateToken(adminID int) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.cfg.Auth.AccessTokenDuration)

	claims := jwt.MapClaims{
		"sub": adminID,
		"exp": expiresAt.Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		s.logger.Error("failed to sign access token", zap.Error(err))
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

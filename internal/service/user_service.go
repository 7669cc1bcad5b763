package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"comment-board-service/internal/entity"
	"comment-board-service/internal/repository"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

var ErrInvalidCredentials = errors.New("invalid credentials")

type UserService struct {
	repo      repository.UserRepository
	rdb       *redis.Client
	jwtSecret []byte
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo repository.UserRepository, rdb *redis.Client, jwtSecret []byte) *UserService {
	return &UserService{repo: repo, rdb: rdb, jwtSecret: jwtSecret}
}

type JwtCustomClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// GetUserByID retrieves a user by ID. A miss is not an error: it returns (nil, nil).
func (s *UserService) GetUserByID(ctx context.Context, id int) (*entity.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting user by ID %d", id)
		return nil, err
	}

	return user, nil
}

func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting user %q", username)
		return nil, err
	}

	return user, nil
}

// ListUsers retrieves all users ordered by id.
func (s *UserService) ListUsers(ctx context.Context) ([]entity.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing users")
		return nil, err
	}

	return users, nil
}

// Login checks the password against the stored bcrypt hash and, on success,
// issues a JWT and stores it in Redis keyed by username.
func (s *UserService) Login(ctx context.Context, username, password string) (token string, err error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		logger.Error().Err(err).Msgf("Error logging in user %q", username)
		return "", err
	}

	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	claims := &JwtCustomClaims{
		Name: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 24)),
		},
	}

	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := tkn.SignedString(s.jwtSecret)
	if err != nil {
		return "", err
	}

	if s.rdb != nil {
		err = s.rdb.Set(ctx, sessionKey(user.Username), t, time.Hour*24).Err()
		if err != nil {
			return "", err
		}
	}

	return t, nil
}

// ValidateSession retrieves the stored session token for a username.
func (s *UserService) ValidateSession(ctx context.Context, username string) (string, error) {
	if s.rdb == nil {
		return "", fmt.Errorf("session store not configured")
	}

	token, err := s.rdb.Get(ctx, sessionKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("session not found")
		}
		return "", err
	}

	return token, nil
}

func sessionKey(username string) string {
	return fmt.Sprintf("session:%s", username)
}

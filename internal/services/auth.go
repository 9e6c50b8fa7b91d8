package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/lunatwin-backend/internal/data/repos"
	types "github.com/yungbote/lunatwin-backend/internal/domain"
	"github.com/yungbote/lunatwin-backend/internal/platform/apierr"
	"github.com/yungbote/lunatwin-backend/internal/platform/ctxutil"
	"github.com/yungbote/lunatwin-backend/internal/platform/logger"
)

var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrInvalidRegistration = errors.New("invalid registration")
)

type JWTClaims struct {
	jwt.RegisteredClaims
}

// TokenPair is what login and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type AuthService interface {
	RegisterUser(ctx context.Context, user *types.User) error
	LoginUser(ctx context.Context, email, password string) (*TokenPair, error)
	RefreshUser(ctx context.Context, refreshToken string) (*TokenPair, error)
	LogoutUser(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	validate      *validator.Validate
	now           func() time.Time
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		validate:      validator.New(),
		now:           time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (as *authService) RegisterUser(ctx context.Context, user *types.User) error {
	if user == nil {
		return apierr.BadRequest("invalid_registration", ErrInvalidRegistration)
	}
	user.Email = normalizeEmail(user.Email)
	user.FirstName = strings.TrimSpace(user.FirstName)
	user.LastName = strings.TrimSpace(user.LastName)
	if err := as.validate.Var(user.Email, "required,email,max=254"); err != nil {
		return apierr.BadRequest("invalid_email", fmt.Errorf("%w: email", ErrInvalidRegistration))
	}
	if user.Password == "" {
		return apierr.BadRequest("invalid_password", fmt.Errorf("%w: password required", ErrInvalidRegistration))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.Password = string(hashed)

	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := as.userRepo.EmailExists(ctx, tx, user.Email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			return apierr.Conflict("email_taken", ErrEmailTaken)
		}
		user.ID = uuid.New()
		if _, err := as.userRepo.Create(ctx, tx, []*types.User{user}); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		as.log.Info("user registered", "user_id", user.ID)
		return nil
	})
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (*TokenPair, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apierr.Unauthorized("invalid_credentials", ErrInvalidCredentials)
	}
	users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	if len(users) == 0 {
		return nil, apierr.Unauthorized("invalid_credentials", ErrInvalidCredentials)
	}
	user := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apierr.Unauthorized("invalid_credentials", ErrInvalidCredentials)
	}

	var pair *TokenPair
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := as.pruneExpired(ctx, tx, user.ID); err != nil {
			return err
		}
		p, err := as.issue(ctx, tx, user)
		if err != nil {
			return err
		}
		pair = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	as.log.Info("user logged in", "user_id", user.ID)
	return pair, nil
}

// RefreshUser rotates a refresh token: the old pair is deleted and a new one issued.
func (as *authService) RefreshUser(ctx context.Context, refreshToken string) (*TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, apierr.Unauthorized("invalid_token", ErrInvalidToken)
	}

	var (
		pair    *TokenPair
		expired bool
	)
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := as.userTokenRepo.GetByRefreshTokens(ctx, tx, []string{refreshToken})
		if err != nil {
			return fmt.Errorf("get refresh token: %w", err)
		}
		if len(found) == 0 {
			return apierr.Unauthorized("invalid_token", ErrInvalidToken)
		}
		existing := found[0]
		if existing.ExpiresAt.Before(as.now()) {
			// Commit the delete; the rejection is returned after the transaction.
			expired = true
			if err := as.userTokenRepo.FullDeleteByTokens(ctx, tx, []*types.UserToken{existing}); err != nil {
				return fmt.Errorf("delete expired token: %w", err)
			}
			return nil
		}
		users, err := as.userRepo.GetByIDs(ctx, tx, []uuid.UUID{existing.UserID})
		if err != nil {
			return fmt.Errorf("load user for refresh: %w", err)
		}
		if len(users) == 0 {
			return apierr.Unauthorized("invalid_token", ErrInvalidToken)
		}
		if err := as.userTokenRepo.FullDeleteByTokens(ctx, tx, []*types.UserToken{existing}); err != nil {
			return fmt.Errorf("delete old token: %w", err)
		}
		p, err := as.issue(ctx, tx, users[0])
		if err != nil {
			return err
		}
		pair = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, apierr.Unauthorized("invalid_token", ErrInvalidToken)
	}
	return pair, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		return apierr.Unauthorized("unauthorized", ErrInvalidToken)
	}
	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := as.userTokenRepo.GetByAccessTokens(ctx, tx, []string{rd.TokenString})
		if err != nil {
			return fmt.Errorf("get access token: %w", err)
		}
		if err := as.userTokenRepo.FullDeleteByTokens(ctx, tx, found); err != nil {
			return fmt.Errorf("delete user token: %w", err)
		}
		as.log.Info("user logged out", "user_id", rd.UserID)
		return nil
	})
}

// SetContextFromToken validates the JWT and checks it has not been revoked.
// An empty token leaves ctx untouched.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now))
	if err != nil {
		return ctx, apierr.Unauthorized("invalid_token", fmt.Errorf("%w: %v", ErrInvalidToken, err))
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, apierr.Unauthorized("invalid_token", ErrInvalidToken)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, apierr.Unauthorized("invalid_token", fmt.Errorf("%w: subject", ErrInvalidToken))
	}
	found, err := as.userTokenRepo.GetByAccessTokens(ctx, nil, []string{tokenString})
	if err != nil {
		return ctx, fmt.Errorf("get access token: %w", err)
	}
	if len(found) == 0 {
		return ctx, apierr.Unauthorized("invalid_token", fmt.Errorf("%w: revoked", ErrInvalidToken))
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      userID,
	}), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

func (as *authService) pruneExpired(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	tokens, err := as.userTokenRepo.GetByUserIDs(ctx, tx, []uuid.UUID{userID})
	if err != nil {
		return fmt.Errorf("get user tokens: %w", err)
	}
	now := as.now()
	var expired []*types.UserToken
	for _, t := range tokens {
		if t.ExpiresAt.Before(now) {
			expired = append(expired, t)
		}
	}
	if err := as.userTokenRepo.FullDeleteByTokens(ctx, tx, expired); err != nil {
		return fmt.Errorf("delete expired tokens: %w", err)
	}
	return nil
}

func (as *authService) issue(ctx context.Context, tx *gorm.DB, user *types.User) (*TokenPair, error) {
	access, err := as.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	token := &types.UserToken{
		ID:           uuid.New(),
		UserID:       user.ID,
		AccessToken:  access,
		RefreshToken: uuid.NewString(),
		ExpiresAt:    as.now().Add(as.refreshTTL),
	}
	if _, err := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{token}); err != nil {
		as.log.Warn("create user token failed", "error", err)
		return nil, fmt.Errorf("create user token: %w", err)
	}
	return &TokenPair{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresIn:    int(as.accessTTL.Seconds()),
	}, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := as.now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

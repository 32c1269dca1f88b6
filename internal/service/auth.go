package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/security"
)

var ErrInvalidCredentials = errors.New("invalid login credentials")

const minPasswordLength = 8

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// ProfileInput is a partial profile update. Nil fields are left unchanged.
// Changing the password requires the current one.
type ProfileInput struct {
	Name            *string
	Email           *string
	Phone           *string
	CurrentPassword string
	NewPassword     *string
}

type authService struct {
	Deps
	tokens  security.TokenManager
	revoked security.RevocationStore
}

func NewAuthService(deps Deps, tokens security.TokenManager, revoked security.RevocationStore) AuthService {
	return &authService{Deps: deps, tokens: tokens, revoked: revoked}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	logger.EnterMethod("authService.Register", "email", in.Email)

	if len(in.Password) < minPasswordLength {
		return nil, "", domain.NewValidationError("password", "The password must be at least 8 characters.")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Role:         domain.RoleCustomer,
		Phone:        strings.TrimSpace(in.Phone),
	}
	if err := s.Repos.Users.Create(ctx, user); err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			return nil, "", domain.NewValidationError("email", conflict.Message)
		}
		logger.ExitMethodWithError("authService.Register", err)
		return nil, "", err
	}

	token, _, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, "", err
	}
	logger.ExitMethod("authService.Register", "userID", user.ID)
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	logger.EnterMethod("authService.Login", "email", email)

	user, err := s.Repos.Users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Warn("Login rejected", "userID", user.ID)
		return nil, "", ErrInvalidCredentials
	}

	token, _, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, "", err
	}
	logger.ExitMethod("authService.Login", "userID", user.ID)
	return user, token, nil
}

// Logout revokes the token id until the token would have expired anyway.
func (s *authService) Logout(ctx context.Context, claims *security.UserClaims) error {
	if claims == nil || claims.ID == "" {
		return security.ErrInvalidToken
	}
	exp := s.now()
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	err := s.revoked.Revoke(ctx, claims.ID, exp)
	logger.ExternalServiceResult("revocation", "revoke", err, "userID", claims.UserID)
	return err
}

func (s *authService) Authenticate(ctx context.Context, token string) (*domain.User, *security.UserClaims, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, nil, err
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, err
	}
	if revoked {
		return nil, nil, security.ErrRevokedToken
	}
	user, err := s.Repos.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			return nil, nil, security.ErrInvalidToken
		}
		return nil, nil, err
	}
	return user, claims, nil
}

func (s *authService) Me(ctx context.Context, userID int64) (*domain.User, error) {
	return s.Repos.Users.GetByID(ctx, userID)
}

func (s *authService) UpdateProfile(ctx context.Context, userID int64, in ProfileInput) (*domain.User, error) {
	user, err := s.Repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.NewPassword != nil {
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)) != nil {
			return nil, domain.NewValidationError("current_password", "The current password is incorrect.")
		}
		if len(*in.NewPassword) < minPasswordLength {
			return nil, domain.NewValidationError("new_password", "The new password must be at least 8 characters.")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if err := s.Repos.Users.Update(ctx, user); err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			return nil, domain.NewValidationError("email", conflict.Message)
		}
		return nil, err
	}
	return user, nil
}

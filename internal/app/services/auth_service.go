package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sevasetu/sevasetu/internal/app/models"
	"github.com/sevasetu/sevasetu/internal/app/models/dto"
	"github.com/sevasetu/sevasetu/internal/app/repositories"
	"github.com/sevasetu/sevasetu/internal/pkg/apperrors"
	"github.com/sevasetu/sevasetu/internal/pkg/auth"
	"github.com/sevasetu/sevasetu/internal/pkg/logger"
)

// UserStore is the persistence surface the auth service needs for staff users
type UserStore interface {
	Create(ctx context.Context, u *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	RecordFailedLogin(ctx context.Context, id int64, lockUntil *time.Time) error
	RecordSuccessfulLogin(ctx context.Context, id int64, at time.Time) error
}

// TokenStore persists refresh tokens
type TokenStore interface {
	Store(ctx context.Context, t *repositories.RefreshToken) error
	Consume(ctx context.Context, token string, now time.Time) (*repositories.RefreshToken, error)
	DeleteForSubject(ctx context.Context, subjectType string, subjectID int64) error
}

// AuthService implements staff registration, login with lockout, and
// refresh token rotation for both staff users and portal members
type AuthService struct {
	users   UserStore
	tokens  TokenStore
	members MemberStore
	jwt     *auth.JWTService
	now     func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserStore, tokens TokenStore, members MemberStore, jwt *auth.JWTService) *AuthService {
	return &AuthService{
		users:   users,
		tokens:  tokens,
		members: members,
		jwt:     jwt,
		now:     time.Now,
	}
}

// Register creates a staff user with the MEMBER role. Admins are created by
// seeding or by another admin, never by self-registration.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:     strings.ToLower(req.Email),
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		RoleType:  models.RoleMember,
		IsActive:  true,
	}

	id, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repositories.ErrUserEmailExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, err
	}
	user.ID = id

	return user, nil
}

// Login authenticates a staff user. Five consecutive failures lock the
// account for two hours; a successful login clears the counter.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, *models.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	now := s.now()
	if user.IsLocked(now) {
		return nil, nil, apperrors.ErrAccountLocked
	}
	if !user.IsActive {
		return nil, nil, apperrors.ErrAccountDisabled
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		var lockUntil *time.Time
		if user.LoginAttempts+1 >= models.MaxLoginAttempts {
			until := now.Add(models.LockoutDuration)
			lockUntil = &until
			logger.Warn().Str("email", user.Email).Time("until", until).Msg("Account locked after repeated failures")
		}
		if err := s.users.RecordFailedLogin(ctx, user.ID, lockUntil); err != nil {
			logger.Error().Err(err).Int64("userID", user.ID).Msg("Could not record failed login")
		}
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	if err := s.users.RecordSuccessfulLogin(ctx, user.ID, now); err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(ctx, user.ID, "", user.Email, string(user.RoleType), repositories.SubjectUser)
	if err != nil {
		return nil, nil, err
	}
	return tokens, user, nil
}

// IssueMemberTokens creates a token pair for an authenticated portal member
func (s *AuthService) IssueMemberTokens(ctx context.Context, member *models.Member) (*dto.TokenResponse, error) {
	return s.issueTokens(ctx, member.ID, member.LoginID, member.Email, string(models.RoleMember), repositories.SubjectMember)
}

// Refresh rotates a refresh token into a new pair. A refresh token is
// single use: consuming it revokes it whether or not the exchange succeeds.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	stored, err := s.tokens.Consume(ctx, refreshToken, s.now())
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTokenNotFound):
			return nil, apperrors.ErrTokenInvalid
		case errors.Is(err, repositories.ErrTokenExpired):
			return nil, apperrors.ErrTokenExpired
		}
		return nil, err
	}

	if stored.SubjectType == repositories.SubjectMember {
		member, err := s.members.GetByID(ctx, stored.SubjectID)
		if err != nil {
			return nil, apperrors.ErrTokenInvalid
		}
		if member.ApprovalStatus != models.ApprovalApproved {
			return nil, apperrors.ErrMembershipNotApproved
		}
		return s.IssueMemberTokens(ctx, member)
	}

	user, err := s.users.GetByID(ctx, stored.SubjectID)
	if err != nil {
		return nil, apperrors.ErrTokenInvalid
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}
	return s.issueTokens(ctx, user.ID, "", user.Email, string(user.RoleType), repositories.SubjectUser)
}

// Logout revokes every refresh token of the subject
func (s *AuthService) Logout(ctx context.Context, subjectType string, subjectID int64) error {
	return s.tokens.DeleteForSubject(ctx, subjectType, subjectID)
}

func (s *AuthService) issueTokens(ctx context.Context, subjectID int64, loginID, email, roleType, subjectType string) (*dto.TokenResponse, error) {
	access, refresh, expiresIn, err := s.jwt.GenerateTokenPair(subjectID, loginID, email, roleType)
	if err != nil {
		return nil, err
	}

	err = s.tokens.Store(ctx, &repositories.RefreshToken{
		Token:       refresh,
		SubjectType: subjectType,
		SubjectID:   subjectID,
		ExpiresAt:   s.jwt.GetRefreshTokenExpiry(),
	})
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    expiresIn,
	}, nil
}

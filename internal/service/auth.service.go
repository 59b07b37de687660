package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/campusconnect-nz/campus-api/internal/auth"
	"github.com/campusconnect-nz/campus-api/internal/model"
	"github.com/campusconnect-nz/campus-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken               = errors.New("email already registered")
	ErrInvalidCredentials       = errors.New("invalid email or password")
	ErrInvalidVerificationToken = errors.New("invalid or expired verification token")
	ErrInvalidResetToken        = errors.New("invalid or expired reset token")
	ErrAlreadyVerified          = errors.New("email already verified")
	ErrPasswordTooLong          = errors.New("password exceeds 72 bytes")
)

const defaultResetTTL = time.Hour

// UserStore is the credential store used by the account flows.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByVerificationToken(ctx context.Context, token string) (model.User, error)
	FindByResetToken(ctx context.Context, token string) (model.User, error)
	Create(ctx context.Context, user model.User) (model.User, error)
	MarkVerified(ctx context.Context, id string) error
	SetVerificationToken(ctx context.Context, id, token string) error
	SetResetToken(ctx context.Context, id, token string, expires time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateProfile(ctx context.Context, id, name string) (model.User, error)
	UpdateRole(ctx context.Context, id string, role model.Role) (model.User, error)
	List(ctx context.Context, limit, offset int) ([]model.User, error)
}

type TokenIssuer interface {
	Issue(identity model.Identity) (string, error)
}

// Session is what signup, login and verification hand back to the client.
type Session struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

type AuthServiceConfig struct {
	VerifyURL string
	ResetURL  string
	ResetTTL  time.Duration
	HashCost  int
}

type AuthService struct {
	users   UserStore
	tokens  TokenIssuer
	revoker auth.Revoker
	cfg     AuthServiceConfig
	now     func() time.Time
}

func NewAuthService(users UserStore, tokens TokenIssuer, revoker auth.Revoker, cfg AuthServiceConfig) *AuthService {
	if revoker == nil {
		revoker = auth.NopRevoker{}
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = defaultResetTTL
	}
	if cfg.HashCost == 0 {
		cfg.HashCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:   users,
		tokens:  tokens,
		revoker: revoker,
		cfg:     cfg,
		now:     time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) session(user model.User) (Session, error) {
	token, err := s.tokens.Issue(user.Identity())
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{Token: token, User: user}, nil
}

// Signup creates an unverified student account. The role is never taken
// from the request.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (Session, error) {
	email = normalizeEmail(email)

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return Session{}, ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return Session{}, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return Session{}, err
	}

	verifyToken := uuid.NewString()
	user, err := s.users.Create(ctx, model.User{
		Name:              strings.TrimSpace(name),
		Email:             email,
		PasswordHash:      string(hash),
		Role:              model.RoleStudent,
		VerificationToken: &verifyToken,
	})
	if errors.Is(err, repository.ErrConflict) {
		return Session{}, ErrEmailTaken
	}
	if err != nil {
		return Session{}, fmt.Errorf("create user: %w", err)
	}

	s.logLink("Verification link issued", user, s.cfg.VerifyURL, verifyToken)
	return s.session(user)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("lookup email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.session(user)
}

// VerifyEmail consumes a verification token and returns a session whose
// token carries verified=true.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (Session, error) {
	user, err := s.users.FindByVerificationToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return Session{}, ErrInvalidVerificationToken
	}
	if err != nil {
		return Session{}, fmt.Errorf("lookup verification token: %w", err)
	}

	if err := s.users.MarkVerified(ctx, user.ID); err != nil {
		return Session{}, fmt.Errorf("mark verified: %w", err)
	}
	user.Verified = true
	user.VerificationToken = nil

	zap.L().Info("Email verified", zap.String("userId", user.ID))
	return s.session(user)
}

func (s *AuthService) ResendVerification(ctx context.Context, userID string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	if user.Verified {
		return ErrAlreadyVerified
	}

	token := uuid.NewString()
	if err := s.users.SetVerificationToken(ctx, user.ID, token); err != nil {
		return fmt.Errorf("store verification token: %w", err)
	}
	s.logLink("Verification link issued", user, s.cfg.VerifyURL, token)
	return nil
}

// ForgotPassword issues a reset token when the account exists. Unknown
// addresses are not an error so callers cannot probe for accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		zap.L().Debug("Password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup email: %w", err)
	}

	token := uuid.NewString()
	expires := s.now().Add(s.cfg.ResetTTL)
	if err := s.users.SetResetToken(ctx, user.ID, token, expires); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	s.logLink("Password reset link issued", user, s.cfg.ResetURL, token)
	return nil
}

// ResetPassword replaces the password and revokes every token issued so far.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	user, err := s.users.FindByResetToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return fmt.Errorf("lookup reset token: %w", err)
	}
	if user.ResetTokenExpires == nil || !s.now().Before(*user.ResetTokenExpires) {
		return ErrInvalidResetToken
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.revoker.RevokeUser(ctx, user.ID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}

	zap.L().Info("Password reset", zap.String("userId", user.ID))
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (model.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID, name string) (model.User, error) {
	return s.users.UpdateProfile(ctx, userID, strings.TrimSpace(name))
}

func (s *AuthService) ListUsers(ctx context.Context, limit, offset int) ([]model.User, error) {
	return s.users.List(ctx, limit, offset)
}

// ChangeRole updates the stored role and revokes the user's tokens, which
// still carry the old role.
func (s *AuthService) ChangeRole(ctx context.Context, userID string, role model.Role) (model.User, error) {
	user, err := s.users.UpdateRole(ctx, userID, role)
	if err != nil {
		return model.User{}, err
	}
	if err := s.revoker.RevokeUser(ctx, user.ID); err != nil {
		return model.User{}, fmt.Errorf("revoke sessions: %w", err)
	}
	zap.L().Info("User role changed",
		zap.String("userId", user.ID),
		zap.String("role", string(role)))
	return user, nil
}

// logLink stands in for email delivery.
func (s *AuthService) logLink(msg string, user model.User, base, token string) {
	zap.L().Info(msg,
		zap.String("userId", user.ID),
		zap.String("email", user.Email),
		zap.String("link", buildLink(base, token)))
}

func buildLink(base, token string) string {
	u, err := url.Parse(base)
	if err != nil || base == "" {
		return token
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

func (s *AuthService) hashPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.HashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, ErrPasswordTooLong
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

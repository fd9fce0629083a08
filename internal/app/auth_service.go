package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"wasata/internal/common"
	"wasata/internal/domain/audit"
	"wasata/internal/domain/auth"
	"wasata/internal/domain/user"
	"wasata/internal/security"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type AuthService struct {
	users         user.Repository
	refreshTokens auth.RefreshTokenRepository
	jwtProvider   *security.JWTProvider
	hasher        PasswordHasher
	audit         auditTrail
	logger        Logger
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewAuthService(users user.Repository, refreshTokens auth.RefreshTokenRepository, jwtProvider *security.JWTProvider, hasher PasswordHasher, audits audit.Repository, logger Logger, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		users:         users,
		refreshTokens: refreshTokens,
		jwtProvider:   jwtProvider,
		hasher:        hasher,
		audit:         newAuditTrail(audits, logger),
		logger:        logger,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

type RegisterInput struct {
	Name           string
	Email          string
	Password       string
	Role           string
	Phone          string
	DisabilityType string
	City           string
	Language       string
}

type AuthResult struct {
	Tokens auth.TokenPair `json:"tokens"`
	User   *user.User     `json:"user"`
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	fields := map[string]string{}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		fields["name"] = "name is required"
	}
	email := NormalizeEmail(in.Email)
	if email == "" {
		fields["email"] = "email is required"
	}
	if msg := checkPassword(in.Password); msg != "" {
		fields["password"] = msg
	}
	role, err := registrationRole(in.Role)
	if err != nil {
		fields["role"] = err.Error()
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid registration", fields)
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	created, err := s.users.Create(ctx, user.User{
		Name:           name,
		Email:          email,
		Phone:          strings.TrimSpace(in.Phone),
		PasswordHash:   hash,
		Role:           role,
		DisabilityType: strings.TrimSpace(in.DisabilityType),
		City:           strings.TrimSpace(in.City),
		Skills:         []string{},
		Language:       normalizeLanguage(in.Language),
	})
	if err != nil {
		if common.Is(err, common.CodeConflict) {
			return nil, common.NewError(common.CodeConflict, "email already registered", err)
		}
		return nil, err
	}
	pair, err := s.issueTokens(ctx, created)
	if err != nil {
		return nil, err
	}
	s.audit.record(ctx, Actor{ID: created.ID, Role: created.Role}, "auth.register", "user", created.ID.String(), map[string]string{"role": string(created.Role)})
	logInfo(s.logger, fmt.Sprintf("user registered user_id=%s role=%s", created.ID, created.Role))
	return &AuthResult{Tokens: *pair, User: created}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	account, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, errInvalidCredentials()
		}
		return nil, err
	}
	if !s.hasher.Compare(account.PasswordHash, password) {
		return nil, errInvalidCredentials()
	}
	if account.Blocked {
		return nil, common.NewError(common.CodeForbidden, "account is blocked", nil)
	}
	pair, err := s.issueTokens(ctx, account)
	if err != nil {
		return nil, err
	}
	s.audit.record(ctx, Actor{ID: account.ID, Role: account.Role}, "auth.login", "user", account.ID.String(), nil)
	logInfo(s.logger, fmt.Sprintf("user logged in user_id=%s", account.ID))
	return &AuthResult{Tokens: *pair, User: account}, nil
}

func (s *AuthService) Refresh(ctx context.Context, token string) (*AuthResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, common.NewValidationError("invalid request", map[string]string{"refresh_token": "refresh_token is required"})
	}
	stored, err := s.refreshTokens.GetByToken(ctx, token)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeUnauthorized, "invalid refresh token", err)
		}
		return nil, err
	}
	if err := stored.Usable(s.now()); err != nil {
		return nil, err
	}
	account, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeUnauthorized, "invalid refresh token", err)
		}
		return nil, err
	}
	if account.Blocked {
		return nil, common.NewError(common.CodeForbidden, "account is blocked", nil)
	}
	revoked, err := s.refreshTokens.Revoke(ctx, token, s.now().Unix())
	if err != nil {
		return nil, err
	}
	if !revoked {
		// lost a race with a concurrent refresh of the same token
		return nil, common.NewError(common.CodeUnauthorized, "refresh token revoked", nil)
	}
	pair, err := s.issueTokens(ctx, account)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Tokens: *pair, User: account}, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return common.NewValidationError("invalid request", map[string]string{"refresh_token": "refresh_token is required"})
	}
	if _, err := s.refreshTokens.Revoke(ctx, token, s.now().Unix()); err != nil {
		return err
	}
	logInfo(s.logger, "user logged out")
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID common.UUID) (*user.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID common.UUID, current, next string) error {
	account, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Compare(account.PasswordHash, current) {
		return common.NewValidationError("invalid password", map[string]string{"current_password": "current password is incorrect"})
	}
	if msg := checkPassword(next); msg != "" {
		return common.NewValidationError("invalid password", map[string]string{"new_password": msg})
	}
	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	if err := s.refreshTokens.RevokeAll(ctx, userID, s.now().Unix()); err != nil {
		return err
	}
	s.audit.record(ctx, Actor{ID: account.ID, Role: account.Role}, "user.password_changed", "user", account.ID.String(), nil)
	return nil
}

// EnsureAdmin creates the bootstrap admin account when no user owns email.
// An existing account with that email is left untouched.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password, name string) (*user.User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, nil
	}
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if existing.Role != user.RoleAdmin {
			logError(s.logger, fmt.Sprintf("bootstrap admin email belongs to a %s account user_id=%s", existing.Role, existing.ID))
		}
		return existing, nil
	}
	if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	if msg := checkPassword(password); msg != "" {
		return nil, common.NewValidationError("invalid admin password", map[string]string{"ADMIN_PASSWORD": msg})
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		name = "Admin"
	}
	created, err := s.users.Create(ctx, user.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Role:         user.RoleAdmin,
		Skills:       []string{},
		Language:     "ar",
	})
	if err != nil {
		return nil, err
	}
	s.audit.record(ctx, Actor{}, "admin.bootstrap", "user", created.ID.String(), nil)
	logInfo(s.logger, fmt.Sprintf("bootstrap admin created user_id=%s", created.ID))
	return created, nil
}

func (s *AuthService) issueTokens(ctx context.Context, account *user.User) (*auth.TokenPair, error) {
	accessToken, expiresAt, err := s.jwtProvider.Generate(account.ID, string(account.Role), s.accessTTL)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to generate access token", err)
	}
	refreshValue, err := generateRefreshToken()
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to generate refresh token", err)
	}
	now := s.now()
	refresh := auth.RefreshToken{
		ID:        common.NewUUID(),
		UserID:    account.ID,
		Token:     refreshValue,
		ExpiresAt: now.Add(s.refreshTTL),
		CreatedAt: now,
	}
	if err := s.refreshTokens.Store(ctx, refresh); err != nil {
		return nil, err
	}
	return &auth.TokenPair{AccessToken: accessToken, RefreshToken: refreshValue, TokenType: "Bearer", ExpiresAt: expiresAt}, nil
}

func generateRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func errInvalidCredentials() error {
	return common.NewError(common.CodeUnauthorized, "invalid credentials", nil)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func registrationRole(value string) (user.Role, error) {
	role := user.Role(strings.ToLower(strings.TrimSpace(value)))
	switch role {
	case "":
		return user.RoleUser, nil
	case user.RoleUser, user.RoleCompany:
		return role, nil
	default:
		return "", errors.New("role must be user or company")
	}
}

// checkPassword returns an empty string for an acceptable password.
func checkPassword(password string) string {
	if len([]rune(password)) < 8 {
		return "password must be at least 8 characters"
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return "password must contain a letter and a digit"
	}
	return ""
}

func normalizeLanguage(value string) string {
	if strings.EqualFold(strings.TrimSpace(value), "en") {
		return "en"
	}
	return "ar"
}

package widget

import (
	"context"
	"errors"
	"sort"
	"strings"
	"tablo-backend/internal/database"
	"tablo-backend/internal/embed"
	internaljwt "tablo-backend/internal/jwt"
	"tablo-backend/internal/model"
	"tablo-backend/internal/token"
	"tablo-backend/utils"
	"time"

	"github.com/google/uuid"
)

type ErrorCode string

const (
	ErrorCodeValidation   ErrorCode = "validation_error"
	ErrorCodeUnauthorized ErrorCode = "unauthorized"
	ErrorCodeForbidden    ErrorCode = "forbidden"
	ErrorCodeNotFound     ErrorCode = "not_found"
	ErrorCodeUpstream     ErrorCode = "upstream_error"
	ErrorCodeInternal     ErrorCode = "internal_error"
)

type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

type Identity struct {
	UserID   string
	TenantID string
	Email    string
}

// TokenIssuer is what the embed-code flow needs from the signing client.
// Satisfied by *token.Issuer; tests substitute a local fake.
type TokenIssuer interface {
	Issue(ctx context.Context, tenantSlug, widgetType, version string) (token.Token, error)
}

type WidgetKey struct {
	KeyID      string
	Key        string
	WidgetType string
	CreatedAt  time.Time
	LastUsedAt time.Time
}

type Service struct {
	repo    Repository
	issuer  TokenIssuer
	baseURL string
	now     func() time.Time
}

func New(db *database.Database, issuer TokenIssuer, widgetBaseURL string) *Service {
	return NewWithRepository(NewDynamoRepository(db), issuer, widgetBaseURL, time.Now)
}

func NewWithRepository(repo Repository, issuer TokenIssuer, widgetBaseURL string, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:    repo,
		issuer:  issuer,
		baseURL: strings.TrimRight(strings.TrimSpace(widgetBaseURL), "/"),
		now:     now,
	}
}

func (s *Service) IdentityFromAuthorizationHeader(header string) (Identity, error) {
	authHeader := strings.TrimSpace(header)
	if authHeader == "" {
		return Identity{}, newError(ErrorCodeUnauthorized, "missing authorization header", nil)
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return Identity{}, newError(ErrorCodeUnauthorized, "invalid authorization header format", nil)
	}

	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return s.identityFromToken(token)
}

func (s *Service) identityFromToken(token string) (Identity, error) {
	if token == "" {
		return Identity{}, newError(ErrorCodeUnauthorized, "empty token", nil)
	}

	claims, err := internaljwt.ParseToken(token, internaljwt.RoleUser)
	if err != nil {
		return Identity{}, newError(ErrorCodeUnauthorized, "invalid token", err)
	}

	userID, _ := claims["id"].(string)
	email, _ := claims["email"].(string)
	tenantID, _ := claims["tenantId"].(string)

	if userID == "" || tenantID == "" {
		return Identity{}, newError(ErrorCodeUnauthorized, "token missing identifiers", nil)
	}

	return Identity{
		UserID:   userID,
		TenantID: tenantID,
		Email:    email,
	}, nil
}

// ensureMemberAccess loads the caller and their tenant, requiring an
// active membership. Reads and embed-code generation only need this.
func (s *Service) ensureMemberAccess(ctx context.Context, identity Identity) (model.UserItem, model.TenantItem, error) {
	if identity.UserID == "" || identity.TenantID == "" {
		return model.UserItem{}, model.TenantItem{}, newError(ErrorCodeUnauthorized, "invalid user identity", nil)
	}

	user, err := s.repo.GetUser(ctx, identity.TenantID, identity.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.UserItem{}, model.TenantItem{}, newError(ErrorCodeUnauthorized, "user not found for tenant", err)
		}
		return model.UserItem{}, model.TenantItem{}, newError(ErrorCodeInternal, "failed to fetch user", err)
	}

	if user.Status != "active" {
		return model.UserItem{}, model.TenantItem{}, newError(ErrorCodeForbidden, "user is not active", nil)
	}

	tenant, err := s.repo.GetTenant(ctx, identity.TenantID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.UserItem{}, model.TenantItem{}, newError(ErrorCodeNotFound, "tenant not found", err)
		}
		return model.UserItem{}, model.TenantItem{}, newError(ErrorCodeInternal, "failed to fetch tenant", err)
	}

	return user, tenant, nil
}

// EnsureMember verifies the caller still maps to an active user of a
// tenant. Endpoints that answer from outside the tenant store, like the
// diagnostics buffer, call this before responding.
func (s *Service) EnsureMember(ctx context.Context, identity Identity) error {
	_, _, err := s.ensureMemberAccess(ctx, identity)
	return err
}

// ensureOwnerAccess is ensureMemberAccess plus the owner-role check.
// Settings writes and widget key management go through here.
func (s *Service) ensureOwnerAccess(ctx context.Context, identity Identity) (model.UserItem, model.TenantItem, error) {
	user, tenant, err := s.ensureMemberAccess(ctx, identity)
	if err != nil {
		return model.UserItem{}, model.TenantItem{}, err
	}

	if user.Role != "owner" {
		return model.UserItem{}, model.TenantItem{}, newError(ErrorCodeForbidden, "only tenant owners can perform this action", nil)
	}

	return user, tenant, nil
}

func (s *Service) ListWidgetKeys(ctx context.Context, identity Identity) ([]WidgetKey, error) {
	_, tenant, err := s.ensureMemberAccess(ctx, identity)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListWidgetKeysByTenant(ctx, tenant.TenantID)
	if err != nil {
		return nil, newError(ErrorCodeInternal, "failed to list widget keys", err)
	}

	keys := make([]WidgetKey, 0, len(items))
	for _, item := range items {
		key, err := toWidgetKey(item)
		if err != nil {
			return nil, newError(ErrorCodeInternal, "invalid widget key record", err)
		}
		keys = append(keys, key)
	}

	sort.Slice(keys, func(i, j int) bool {
		return keys[i].CreatedAt.After(keys[j].CreatedAt)
	})

	return keys, nil
}

func (s *Service) CreateWidgetKey(ctx context.Context, identity Identity, widgetType string) (WidgetKey, error) {
	widgetType = strings.TrimSpace(widgetType)
	if !embed.KnownWidgetType(embed.WidgetType(widgetType)) {
		return WidgetKey{}, newError(ErrorCodeValidation, "unknown widget type", nil)
	}

	_, tenant, err := s.ensureOwnerAccess(ctx, identity)
	if err != nil {
		return WidgetKey{}, err
	}

	now := s.now().UTC()
	item := model.WidgetKeyItem{
		WidgetKey:  utils.GenerateWidgetKey(),
		TenantID:   tenant.TenantID,
		WidgetType: widgetType,
		KeyID:      uuid.NewString(),
		CreatedAt:  now.Format(time.RFC3339),
	}

	if err := s.repo.CreateWidgetKey(ctx, item); err != nil {
		return WidgetKey{}, newError(ErrorCodeInternal, "failed to create widget key", err)
	}

	key, err := toWidgetKey(item)
	if err != nil {
		return WidgetKey{}, newError(ErrorCodeInternal, "failed to prepare widget key response", err)
	}

	return key, nil
}

func (s *Service) DeleteWidgetKey(ctx context.Context, identity Identity, keyID string) error {
	keyID = strings.TrimSpace(keyID)
	if keyID == "" {
		return newError(ErrorCodeValidation, "keyId is required", nil)
	}

	_, tenant, err := s.ensureOwnerAccess(ctx, identity)
	if err != nil {
		return err
	}

	items, err := s.repo.ListWidgetKeysByTenant(ctx, tenant.TenantID)
	if err != nil {
		return newError(ErrorCodeInternal, "failed to list widget keys", err)
	}

	for _, item := range items {
		if item.KeyID != keyID {
			continue
		}
		if err := s.repo.DeleteWidgetKey(ctx, item.WidgetKey); err != nil {
			return newError(ErrorCodeInternal, "failed to delete widget key", err)
		}
		return nil
	}

	return newError(ErrorCodeNotFound, "widget key not found", nil)
}

func toWidgetKey(item model.WidgetKeyItem) (WidgetKey, error) {
	createdAt, err := time.Parse(time.RFC3339, item.CreatedAt)
	if err != nil {
		return WidgetKey{}, err
	}
	key := WidgetKey{
		KeyID:      item.KeyID,
		Key:        item.WidgetKey,
		WidgetType: item.WidgetType,
		CreatedAt:  createdAt,
	}
	if item.LastUsedAt != "" {
		if lastUsed, err := time.Parse(time.RFC3339, item.LastUsedAt); err == nil {
			key.LastUsedAt = lastUsed
		}
	}
	return key, nil
}

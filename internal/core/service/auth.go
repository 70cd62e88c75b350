// Package service provides domain services for RelayMesh.
//
// AuthService handles credential validation, login rate limiting,
// and credential management.
package service

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/yndnr/relaymesh-go/internal/core/domain"
)

// CredentialRepository defines the storage interface for credentials.
type CredentialRepository interface {
	// Get retrieves a credential by identity.
	Get(ctx context.Context, identity string) (*domain.Credential, error)

	// Create creates a new credential.
	Create(ctx context.Context, cred *domain.Credential) error

	// Update updates an existing credential.
	Update(ctx context.Context, cred *domain.Credential) error

	// Delete deletes a credential by identity.
	Delete(ctx context.Context, identity string) error

	// List retrieves all credentials.
	List(ctx context.Context) ([]*domain.Credential, error)
}

// AuthService validates credentials and issues session tokens.
type AuthService struct {
	repo         CredentialRepository
	tokens       *TokenService
	rateLimiters *RateLimiterRegistry
	loginRate    rate.Limit
	loginBurst   int

	// dummyHash burns a hash verification for unknown identities so
	// response timing does not reveal whether an identity exists.
	dummyHash string
}

// AuthServiceConfig holds configuration for AuthService.
type AuthServiceConfig struct {
	// LoginRate is the sustained login attempts per second per client.
	LoginRate float64

	// LoginBurst is the burst size for login attempts per client.
	LoginBurst int
}

// DefaultAuthServiceConfig returns default configuration.
func DefaultAuthServiceConfig() *AuthServiceConfig {
	return &AuthServiceConfig{
		LoginRate:  5,
		LoginBurst: 10,
	}
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo CredentialRepository, tokens *TokenService, config *AuthServiceConfig) (*AuthService, error) {
	if config == nil {
		config = DefaultAuthServiceConfig()
	}

	dummy, err := domain.HashSecret("relaymesh-dummy-verification")
	if err != nil {
		return nil, err
	}

	return &AuthService{
		repo:         repo,
		tokens:       tokens,
		rateLimiters: NewRateLimiterRegistry(),
		loginRate:    rate.Limit(config.LoginRate),
		loginBurst:   config.LoginBurst,
		dummyHash:    dummy,
	}, nil
}

// AuthenticateRequest contains parameters for credential validation.
type AuthenticateRequest struct {
	Identity string
	Secret   string
	ClientIP string // used for per-client login rate limiting
}

// AuthenticateResponse contains the issued token on success.
type AuthenticateResponse struct {
	Token     *domain.Token
	Scope     domain.Scope
	ExpiresAt int64 // Unix milliseconds
}

// Authenticate validates an identity/secret pair and issues a signed
// session token. Unknown identity and wrong secret both return
// ErrInvalidCredentials; rate-limited clients get ErrRateLimited
// before any credential lookup happens.
func (s *AuthService) Authenticate(ctx context.Context, req *AuthenticateRequest) (*AuthenticateResponse, error) {
	if req.Identity == "" {
		return nil, domain.ErrMissingArgument.WithDetails("identity is required")
	}
	if req.Secret == "" {
		return nil, domain.ErrMissingArgument.WithDetails("secret is required")
	}
	if len(req.Identity) > domain.MaxIdentityLength {
		return nil, domain.ErrCredentialValidation.WithDetails("identity exceeds 128 characters")
	}
	if len(req.Secret) > domain.MaxSecretLength {
		return nil, domain.ErrCredentialValidation.WithDetails("secret exceeds 512 characters")
	}

	if req.ClientIP != "" {
		limiter := s.rateLimiters.GetOrCreate(req.ClientIP, s.loginRate, s.loginBurst)
		if !limiter.Allow() {
			return nil, domain.ErrRateLimited.WithDetails("too many login attempts")
		}
	}

	cred, err := s.repo.Get(ctx, req.Identity)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCredentialNotFound.Code) {
			// Burn a verification so unknown identities take as long
			// as wrong secrets.
			domain.VerifySecretHash(req.Secret, s.dummyHash)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, domain.ErrStorageError.WithCause(err)
	}

	if !cred.VerifySecret(req.Secret) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(cred.Identity, cred.Scope)
	if err != nil {
		return nil, err
	}

	return &AuthenticateResponse{
		Token:     token,
		Scope:     cred.Scope,
		ExpiresAt: token.ExpiresAt,
	}, nil
}

// VerifyToken checks a presented token and returns its claims.
func (s *AuthService) VerifyToken(_ context.Context, raw string) (*domain.Token, error) {
	return s.tokens.Verify(raw)
}

// Authorize verifies a token and requires the given scope.
// Admin tokens satisfy any scope requirement.
func (s *AuthService) Authorize(ctx context.Context, raw string, required domain.Scope) (*domain.Token, error) {
	token, err := s.VerifyToken(ctx, raw)
	if err != nil {
		return nil, err
	}

	if token.Scope != required && token.Scope != domain.ScopeAdmin {
		return nil, domain.ErrPermissionDenied.WithDetails("requires scope: " + string(required))
	}
	return token, nil
}

// ============================================================================
// Credential Management Operations
// ============================================================================

// CreateCredentialRequest contains parameters for creating a credential.
type CreateCredentialRequest struct {
	Identity string
	Secret   string
	Scope    string
}

// CreateCredentialResponse contains the created credential metadata.
type CreateCredentialResponse struct {
	Identity  string
	Scope     domain.Scope
	CreatedAt time.Time
}

// CreateCredential creates a new credential.
func (s *AuthService) CreateCredential(ctx context.Context, req *CreateCredentialRequest) (*CreateCredentialResponse, error) {
	scope, err := domain.ParseScope(req.Scope)
	if err != nil {
		return nil, err
	}

	cred, err := domain.NewCredential(req.Identity, req.Secret, scope)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, cred); err != nil {
		return nil, err
	}

	return &CreateCredentialResponse{
		Identity:  cred.Identity,
		Scope:     cred.Scope,
		CreatedAt: cred.CreatedAtTime(),
	}, nil
}

// CredentialInfo is the externally visible view of a credential.
// The secret hash is never exposed.
type CredentialInfo struct {
	Identity  string    `json:"identity"`
	Scope     string    `json:"scope"`
	CreatedAt time.Time `json:"created_at"`
}

// ListCredentials lists all credentials without their secret hashes.
func (s *AuthService) ListCredentials(ctx context.Context) ([]*CredentialInfo, error) {
	creds, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]*CredentialInfo, 0, len(creds))
	for _, cred := range creds {
		infos = append(infos, &CredentialInfo{
			Identity:  cred.Identity,
			Scope:     string(cred.Scope),
			CreatedAt: cred.CreatedAtTime(),
		})
	}
	return infos, nil
}

// DeleteCredential removes a credential by identity.
func (s *AuthService) DeleteCredential(ctx context.Context, identity string) error {
	if identity == "" {
		return domain.ErrMissingArgument.WithDetails("identity is required")
	}
	return s.repo.Delete(ctx, identity)
}

// ============================================================================
// Rate Limiter Registry
// ============================================================================

// RateLimiterRegistry manages per-client rate limiters.
type RateLimiterRegistry struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
}

// NewRateLimiterRegistry creates a new RateLimiterRegistry.
func NewRateLimiterRegistry() *RateLimiterRegistry {
	return &RateLimiterRegistry{
		limiters: make(map[string]*rate.Limiter),
	}
}

// GetOrCreate retrieves an existing rate limiter or creates a new one.
func (r *RateLimiterRegistry) GetOrCreate(key string, limit rate.Limit, burst int) *rate.Limiter {
	r.mu.RLock()
	limiter, exists := r.limiters[key]
	r.mu.RUnlock()

	if exists {
		return limiter
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock.
	if limiter, exists := r.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(limit, burst)
	r.limiters[key] = limiter
	return limiter
}

// Delete removes a rate limiter for a specific key.
func (r *RateLimiterRegistry) Delete(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.limiters, key)
}

// Clear removes all rate limiters.
func (r *RateLimiterRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.limiters = make(map[string]*rate.Limiter)
}

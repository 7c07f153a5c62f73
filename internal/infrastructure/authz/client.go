package authz

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/tonpuu/riichi-league/internal/domain/user"
	"github.com/tonpuu/riichi-league/internal/platform/cache"
	"github.com/tonpuu/riichi-league/internal/platform/logging"
	"github.com/tonpuu/riichi-league/internal/platform/resilience"
	"github.com/tonpuu/riichi-league/internal/usecase"
)

var errIntrospectTransient = crerr.New("introspection transient failure")

type ClientConfig struct {
	BaseURL        string
	IntrospectPath string
	Timeout        time.Duration
	CacheTTL       time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client verifies bearer tokens against the league account service.
// Repeated upstream failures trip the breaker so a dead account
// service degrades requests fast instead of piling up timeouts.
type Client struct {
	httpClient     *http.Client
	introspectURL  string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	tokenCache     *cache.Store
}

func NewClient(cfg ClientConfig, logger *logging.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		introspectURL:  buildURL(cfg.BaseURL, cfg.IntrospectPath),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		tokenCache:     cache.NewStore(cacheTTL),
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	// Verified principals are cached briefly so a burst of requests
	// from the same session does not hammer the account service.
	// Failures are never cached.
	value, err := c.tokenCache.GetOrLoad(ctx, tokenCacheKey(token), func(ctx context.Context) (any, error) {
		if c.circuitEnabled {
			if err := c.breaker.Allow(); err != nil {
				c.logger.WarnContext(ctx, "introspection circuit breaker rejected request", "state", c.breaker.State())
				return nil, fmt.Errorf("%w: account service is temporarily unavailable", usecase.ErrDependencyUnavailable)
			}
		}

		principal, err := c.introspect(ctx, token)
		c.recordCircuitResult(err)
		if err != nil {
			return nil, err
		}
		return principal, nil
	})
	if err != nil {
		return user.Principal{}, err
	}

	principal, ok := value.(user.Principal)
	if !ok {
		return user.Principal{}, crerr.New("invalid cached principal type")
	}
	return principal, nil
}

func tokenCacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "introspect:" + hex.EncodeToString(sum[:])
}

func (c *Client) introspect(ctx context.Context, token string) (user.Principal, error) {
	encoded, err := sonic.Marshal(introspectRequest{Token: token})
	if err != nil {
		return user.Principal{}, crerr.Wrap(err, "marshal introspect request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, strings.NewReader(string(encoded)))
	if err != nil {
		return user.Principal{}, crerr.Wrap(err, "create introspect request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return user.Principal{}, fmt.Errorf("%w: request introspection: %v", errIntrospectTransient, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return user.Principal{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return user.Principal{}, crerr.Wrap(err, "read introspect response")
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "introspection non-200", "status_code", resp.StatusCode)
		if resp.StatusCode >= http.StatusInternalServerError {
			return user.Principal{}, fmt.Errorf("%w: introspection failed with status %d", errIntrospectTransient, resp.StatusCode)
		}
		return user.Principal{}, crerr.Newf("introspection failed with status %d", resp.StatusCode)
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, crerr.Wrap(err, "unmarshal introspect response")
	}

	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, crerr.New("invalid introspect response: user_id is empty")
	}

	return user.Principal{
		UserID:      decoded.UserID,
		DisplayName: decoded.DisplayName,
		Roles:       decoded.Roles,
	}, nil
}

func (c *Client) recordCircuitResult(err error) {
	if !c.circuitEnabled || c.breaker == nil {
		return
	}
	if err != nil && stderrors.Is(err, errIntrospectTransient) {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active      bool     `json:"active"`
	UserID      string   `json:"user_id"`
	DisplayName string   `json:"display_name"`
	Roles       []string `json:"roles"`
}

func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	if path == "" {
		return baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return baseURL + path
}

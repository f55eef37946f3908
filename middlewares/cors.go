package middlewares

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/restify/internal"
)

// DefaultCORSMaxAge is the default preflight cache duration.
const DefaultCORSMaxAge = 12 * time.Hour

// DefaultCORSConfig provides sensible defaults for CORS.
var DefaultCORSConfig = CORSConfig{
	AllowOrigins: []string{"*"},
	AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
	MaxAge:       DefaultCORSMaxAge,
}

// CORSConfig configures the CORS middleware.
type CORSConfig struct {
	// AllowOrigins is a static list of allowed origins.
	// Use "*" to allow all origins (not recommended with credentials).
	AllowOrigins []string

	// AllowOriginFunc is a dynamic origin validator.
	// When set, it completely overrides AllowOrigins for that request.
	// Return true if the origin should be allowed.
	AllowOriginFunc func(origin string) bool

	// AllowMethods specifies the allowed HTTP methods.
	AllowMethods []string

	// AllowHeaders specifies the allowed request headers.
	AllowHeaders []string

	// ExposeHeaders specifies headers exposed to the client.
	ExposeHeaders []string

	// AllowCredentials indicates whether credentials (cookies, authorization headers) are allowed.
	// When true, preflight responses echo the actual origin instead of "*".
	AllowCredentials bool

	// MaxAge specifies how long preflight responses can be cached.
	MaxAge time.Duration
}

// CORSOption configures CORSConfig.
type CORSOption func(*CORSConfig)

// WithAllowOrigins sets the allowed origins.
func WithAllowOrigins(origins ...string) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.AllowOrigins = origins
	}
}

// WithAllowOriginFunc sets a dynamic origin validator.
// When set, it completely overrides AllowOrigins.
func WithAllowOriginFunc(fn func(origin string) bool) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.AllowOriginFunc = fn
	}
}

// WithAllowMethods sets the allowed HTTP methods.
func WithAllowMethods(methods ...string) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.AllowMethods = methods
	}
}

// WithAllowHeaders sets the allowed request headers.
func WithAllowHeaders(headers ...string) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.AllowHeaders = headers
	}
}

// WithExposeHeaders sets the headers exposed to the client.
func WithExposeHeaders(headers ...string) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.ExposeHeaders = headers
	}
}

// WithAllowCredentials enables credentials support.
// When enabled, preflight responses echo the actual origin instead of "*".
func WithAllowCredentials() CORSOption {
	return func(cfg *CORSConfig) {
		cfg.AllowCredentials = true
	}
}

// WithMaxAge sets the preflight cache duration.
func WithMaxAge(duration time.Duration) CORSOption {
	return func(cfg *CORSConfig) {
		cfg.MaxAge = duration
	}
}

// CORS returns a stage answering preflight requests and adding CORS headers
// to cross-origin responses. Routes only exist for GET, POST, PUT and DELETE,
// so install CORS with WithMiddleware: global stages also wrap the not-found
// and method-not-allowed chains that an OPTIONS request falls into.
//
// The server stamps its own Access-Control-Allow-Origin on every routed
// response; configure it with WithAllowOrigin to agree with AllowOrigins.
func CORS(opts ...CORSOption) internal.Stage {
	cfg := &CORSConfig{
		AllowOrigins: DefaultCORSConfig.AllowOrigins,
		AllowMethods: DefaultCORSConfig.AllowMethods,
		AllowHeaders: DefaultCORSConfig.AllowHeaders,
		MaxAge:       DefaultCORSConfig.MaxAge,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	allowMethodsStr := strings.Join(cfg.AllowMethods, ", ")
	allowHeadersStr := strings.Join(cfg.AllowHeaders, ", ")
	exposeHeadersStr := strings.Join(cfg.ExposeHeaders, ", ")
	maxAgeStr := strconv.Itoa(int(cfg.MaxAge.Seconds()))

	hasWildcard := slices.Contains(cfg.AllowOrigins, "*")

	return func(req *internal.Request, res *internal.Response, next internal.Next) error {
		origin := req.Header("Origin")

		// Not a CORS request, or a disallowed origin the browser will block.
		if origin == "" || !isOriginAllowed(origin, cfg, hasWildcard) {
			return next()
		}

		headers := [][2]string{{"Vary", "Origin"}}
		if cfg.AllowCredentials {
			headers = append(headers, [2]string{"Access-Control-Allow-Credentials", "true"})
		}
		if exposeHeadersStr != "" {
			headers = append(headers, [2]string{"Access-Control-Expose-Headers", exposeHeadersStr})
		}

		if req.Method() != http.MethodOptions {
			if err := addHeaders(res, headers); err != nil {
				return err
			}
			return next()
		}

		allowOrigin := "*"
		if cfg.AllowCredentials || !hasWildcard {
			allowOrigin = origin
		}
		headers = append(headers,
			[2]string{"Vary", "Access-Control-Request-Method"},
			[2]string{"Vary", "Access-Control-Request-Headers"},
			[2]string{"Access-Control-Allow-Origin", allowOrigin},
			[2]string{"Access-Control-Allow-Methods", allowMethodsStr},
			[2]string{"Access-Control-Allow-Headers", allowHeadersStr},
		)
		if cfg.MaxAge > 0 {
			headers = append(headers, [2]string{"Access-Control-Max-Age", maxAgeStr})
		}
		if err := addHeaders(res, headers); err != nil {
			return err
		}
		if err := res.SetStatus(http.StatusNoContent); err != nil {
			return err
		}
		return res.End()
	}
}

func addHeaders(res *internal.Response, headers [][2]string) error {
	for _, h := range headers {
		if err := res.AddHeader(h[0], h[1]); err != nil {
			return err
		}
	}
	return nil
}

// isOriginAllowed checks if the given origin is allowed based on configuration.
func isOriginAllowed(origin string, cfg *CORSConfig, hasWildcard bool) bool {
	// AllowOriginFunc completely overrides AllowOrigins when set
	if cfg.AllowOriginFunc != nil {
		return cfg.AllowOriginFunc(origin)
	}
	if hasWildcard {
		return true
	}
	return slices.Contains(cfg.AllowOrigins, origin)
}

package auth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"Jibcrane/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

type contextKey string

const userKey contextKey = "user"

const (
	CookieName = "session_token"
	TokenTTL   = 12 * time.Hour
)

// Authenv guards the API with one configured account. Clients send HTTP
// Basic credentials, a session cookie from /api/login, or the same token
// as a Bearer header.
type Authenv struct {
	JWTkey   []byte
	User     string
	PassHash []byte
	// Disabled lets every request through as User.
	Disabled bool
}

type IPRateLimiter struct {
	ips map[string]*rate.Limiter
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

type Loginrequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// New hashes password so the plain text is not kept in memory.
func New(user, password string, key []byte) (*Authenv, error) {
	if user == "" || password == "" {
		return nil, errors.New("auth user and password required")
	}
	if len(key) == 0 {
		return nil, errors.New("token key required")
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &Authenv{JWTkey: key, User: user, PassHash: []byte(hash)}, nil
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*rate.Limiter),
		r:   r,
		b:   b,
	}
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	limiter, exists := i.ips[ip]
	if !exists {
		limiter = rate.NewLimiter(i.r, i.b)
		i.ips[ip] = limiter
	}
	return limiter
}

// LimitMiddleware rate limits per client host.
func (i *IPRateLimiter) LimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}
		if !i.getLimiter(ip).Allow() {
			http.Error(w, "Too Many Requests. Try again later.", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func (env *Authenv) checkPassword(login, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(login), []byte(env.User)) == 1
	passOK := bcrypt.CompareHashAndPassword(env.PassHash, []byte(password)) == nil
	return userOK && passOK
}

// NewToken signs a session token for login.
func (env *Authenv) NewToken(login string, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   login,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	})
	return token.SignedString(env.JWTkey)
}

func (env *Authenv) parseToken(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return env.JWTkey, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject != env.User {
		return "", jwt.ErrTokenInvalidSubject
	}
	return claims.Subject, nil
}

func (env *Authenv) authenticate(r *http.Request) (string, bool) {
	if env.Disabled {
		return env.User, true
	}
	if login, password, ok := r.BasicAuth(); ok {
		return login, env.checkPassword(login, password)
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		login, err := env.parseToken(strings.TrimPrefix(h, "Bearer "))
		return login, err == nil
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		login, err := env.parseToken(cookie.Value)
		if err != nil {
			logger.Log.WithError(err).Debug("rejected session token")
		}
		return login, err == nil
	}
	return "", false
}

func (env *Authenv) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		login, ok := env.authenticate(r)
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="jibcrane"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, login)))
	})
}

// UserFromContext returns the login set by AuthMiddleware.
func UserFromContext(ctx context.Context) (string, bool) {
	u, ok := ctx.Value(userKey).(string)
	return u, ok
}

func (env *Authenv) addCookie(w http.ResponseWriter, r *http.Request, login string) error {
	now := time.Now()
	tokenString, err := env.NewToken(login, now)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tokenString,
		Expires:  now.Add(TokenTTL),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (env *Authenv) AuthHandler(w http.ResponseWriter, r *http.Request) {
	var req Loginrequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	req.Login = strings.TrimSpace(req.Login)
	if req.Login == "" || req.Password == "" {
		http.Error(w, "Login and password required", http.StatusBadRequest)
		return
	}
	if !env.checkPassword(req.Login, req.Password) {
		logger.Log.WithField("login", req.Login).Warn("failed login")
		http.Error(w, "Invalid login or password", http.StatusUnauthorized)
		return
	}
	if err := env.addCookie(w, r, req.Login); err != nil {
		logger.Log.WithError(err).Error("sign session token")
		http.Error(w, "Token error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Authentication successful"))
}

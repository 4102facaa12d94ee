package common

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const (
	authUserContextKey    contextKey = "authUser"
	authFailureContextKey contextKey = "authFailure"
)

// AuthenticatedUser represents the JWT-derived principal.
type AuthenticatedUser struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
}

// AuthFailureKind classifies why a presented token was rejected.
type AuthFailureKind string

const (
	// AuthFailureExpired means the token's validity window has passed.
	AuthFailureExpired AuthFailureKind = "token_expired"
	// AuthFailureInvalid covers bad signatures and malformed payloads.
	AuthFailureInvalid AuthFailureKind = "token_invalid"
)

// AuthFailure carries the classified rejection of a presented token.
// A missing or malformed Authorization header is not a failure: such
// requests proceed as anonymous and callers that require authentication
// reject them on the absent identity instead.
type AuthFailure struct {
	Kind    AuthFailureKind
	Message string
}

// ContextWithUser stores the authenticated user into context.
func ContextWithUser(ctx context.Context, user AuthenticatedUser) context.Context {
	return context.WithValue(ctx, authUserContextKey, user)
}

// UserFromContext extracts the authenticated user from context.
func UserFromContext(ctx context.Context) (AuthenticatedUser, bool) {
	user, ok := ctx.Value(authUserContextKey).(AuthenticatedUser)
	return user, ok
}

// ContextWithAuthFailure stores a classified token failure into context.
func ContextWithAuthFailure(ctx context.Context, failure AuthFailure) context.Context {
	return context.WithValue(ctx, authFailureContextKey, failure)
}

// AuthFailureFromContext extracts a classified token failure from context.
func AuthFailureFromContext(ctx context.Context) (AuthFailure, bool) {
	failure, ok := ctx.Value(authFailureContextKey).(AuthFailure)
	return failure, ok
}

type authClaims struct {
	jwt.RegisteredClaims
	UserID            string `json:"user_id,omitempty"`
	Name              string `json:"name,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
}

// TokenVerifier は Authorization ヘッダーの JWT を単一の共有シークレットで検証する。
// 副作用を持たない純粋な検証器で、リトライも外部 I/O も行わない。
type TokenVerifier struct {
	secret   []byte
	issuer   string
	audience string
}

// NewTokenVerifier constructs a verifier bound to the server-held secret.
func NewTokenVerifier(secret []byte, issuer, audience string) *TokenVerifier {
	return &TokenVerifier{secret: secret, issuer: issuer, audience: audience}
}

// Verify は `Bearer <token>` 形式のヘッダーを検証し、認証済みユーザーか分類済み失敗を返す。
// ヘッダーなし・形式不正は匿名（ゼロ値ユーザー・失敗なし）として扱う。閲覧系の
// エンドポイントが匿名アクセスを許すため、ここでは拒否しない。
func (v *TokenVerifier) Verify(authHeader string) (AuthenticatedUser, *AuthFailure) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return AuthenticatedUser{}, nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return AuthenticatedUser{}, nil
	}
	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return AuthenticatedUser{}, nil
	}

	claims := &authClaims{}
	parseOptions := []jwt.ParserOption{jwt.WithLeeway(30 * time.Second)}
	if v.issuer != "" {
		parseOptions = append(parseOptions, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		parseOptions = append(parseOptions, jwt.WithAudience(v.audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method: " + token.Method.Alg())
		}
		return v.secret, nil
	}, parseOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return AuthenticatedUser{}, &AuthFailure{
				Kind:    AuthFailureExpired,
				Message: "セッションの有効期限が切れています。再度ログインしてください",
			}
		}
		return AuthenticatedUser{}, invalidTokenFailure()
	}
	if !token.Valid {
		return AuthenticatedUser{}, invalidTokenFailure()
	}

	userID := strings.TrimSpace(claims.UserID)
	if userID == "" {
		userID = strings.TrimSpace(claims.Subject)
	}
	if userID == "" {
		return AuthenticatedUser{}, invalidTokenFailure()
	}

	return AuthenticatedUser{
		ID:       userID,
		Name:     claims.Name,
		Username: claims.PreferredUsername,
	}, nil
}

func invalidTokenFailure() *AuthFailure {
	return &AuthFailure{
		Kind:    AuthFailureInvalid,
		Message: "アクセストークンが無効です",
	}
}

// OptionalAuth は検証結果をコンテキストへ記録するだけで、リクエストを拒否しないミドルウェア。
// 認証必須のハンドラはコンテキストの中身を見て自分で 401 を返す。
func (v *TokenVerifier) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, failure := v.Verify(r.Header.Get("Authorization"))
		ctx := r.Context()
		if failure != nil {
			ctx = ContextWithAuthFailure(ctx, *failure)
		} else if user.ID != "" {
			ctx = ContextWithUser(ctx, user)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth は認証済みユーザーが取れないリクエストをその場で 401 にするミドルウェア。
func (v *TokenVerifier) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, failure := v.Verify(r.Header.Get("Authorization"))
		if failure != nil {
			WriteJSON(nil, w, http.StatusUnauthorized, map[string]string{
				"error": failure.Message,
				"code":  string(failure.Kind),
			})
			return
		}
		if user.ID == "" {
			WriteJSON(nil, w, http.StatusUnauthorized, map[string]string{"error": "認証が必要です"})
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/zhouzirui/langman/backend/pkg/utils"
)

const accessPlayer = "player"

var (
	ErrSecretRequired = errors.New("jwt secret is required")
	ErrInvalidToken   = errors.New("invalid access token")
	ErrWrongGame      = errors.New("token is not valid for this game")
)

// Claims binds a token to one player and one game table.
type Claims struct {
	Name   string `json:"name"`
	GameID string `json:"game_id"`
	Access string `json:"access"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 game access tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an Issuer. ttl <= 0 means one day.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrSecretRequired
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token for playerID at gameID.
func (i *Issuer) Issue(playerID, name, gameID string) (string, error) {
	now := i.now()
	claims := Claims{
		Name:   name,
		GameID: gameID,
		Access: accessPlayer,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   playerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and returns its claims.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Access != accessPlayer {
		return nil, fmt.Errorf("%w: unexpected access %q", ErrInvalidToken, claims.Access)
	}
	return claims, nil
}

type claimsKey struct{}

// ClaimsFromContext returns the claims stored by RequireGame.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*Claims)
	return claims, ok
}

// RequireGame rejects requests whose token does not belong to the game in
// the {param} URL parameter. The token is read from the Authorization bearer
// header, or from the token query parameter for WebSocket upgrades.
func (i *Issuer) RequireGame(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				utils.RespondError(w, http.StatusUnauthorized, "missing access token")
				return
			}

			claims, err := i.Parse(raw)
			if err != nil {
				utils.RespondError(w, http.StatusUnauthorized, ErrInvalidToken.Error())
				return
			}

			if claims.GameID != chi.URLParam(r, param) {
				utils.RespondError(w, http.StatusForbidden, ErrWrongGame.Error())
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}

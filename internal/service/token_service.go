package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Tipos de token. Un token solo vale para el flujo que lo emitió: un token de
// acción nunca sirve como sesión ni al revés.
const (
	TokenTypeSession     = "session"
	TokenTypeVerify      = "verify"
	TokenTypeReset       = "reset"
	TokenTypeEmailChange = "email_change"
)

// TokenService emite y valida tokens firmados (HS256). El secreto se fija una
// vez al arranque y no cambia durante la vida del proceso.
type TokenService struct {
	secret []byte
	issuer string
}

// Claims transporta los datos firmados de un token. Los tokens de sesión usan
// UserID/Email/Role/CompanyID; los tokens de acción usan el subconjunto que
// cada flujo necesita.
type Claims struct {
	UserID    string `json:"uid,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	CompanyID *int64 `json:"company_id,omitempty"`
	NewEmail  string `json:"new_email,omitempty"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

var (
	ErrTokenInvalid   = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
)

func NewTokenService(secret string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		issuer: "workin",
	}
}

// Issue firma los claims con una expiración absoluta de ahora + ttl. El jti
// hace único cada token: iat/exp tienen granularidad de segundo, así que dos
// emisiones con los mismos claims en el mismo segundo serían idénticas sin él.
func (s *TokenService) Issue(claims Claims, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 || claims.TokenType == "" {
		return "", ErrTokenInvalid
	}
	now := time.Now().UTC()
	claims.ID = uuid.NewString()
	claims.Issuer = s.issuer
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify valida firma, expiración y tipo, y devuelve los claims embebidos.
// Un token de tipo distinto a wantType es inválido aunque la firma cierre.
// Falla con ErrTokenExpired, ErrTokenInvalid o ErrTokenMalformed según el caso.
func (s *TokenService) Verify(tokenString, wantType string) (Claims, error) {
	if len(s.secret) == 0 {
		return Claims{}, ErrTokenInvalid
	}
	var claims Claims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return Claims{}, ErrTokenMalformed
		default:
			return Claims{}, ErrTokenInvalid
		}
	}
	if claims.Issuer != s.issuer || claims.TokenType != wantType {
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}

package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/yucheyahyasukaca/pengawas-sub001/core"
)

const (
	contextTokenKey = "userToken"
	audience        = "Pengawas"
)

// Claims represents the authorization claims transmitted via a JWT. Tokens are issued by the
// portal's authentication service; this API only verifies them.
type Claims struct {
	jwt.StandardClaims
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	IsPengawas bool   `json:"is_pengawas,omitempty"`
}

func (c Claims) Supervisor() core.Supervisor {
	return core.Supervisor{ID: c.Subject, Name: c.Name, Email: c.Email}
}

func newJWTConfig(secretKey string) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(secretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	}
}

// NewSupervisorClaims returns pengawas claims for sup, valid for conf.Server.JWTExpirationDelta.
func NewSupervisorClaims(sup core.Supervisor, conf *core.Config) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   sup.ID,
			Audience:  audience,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:       sup.Name,
		Email:      sup.Email,
		IsPengawas: true,
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(claims *Claims, secretKey string) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), claims)
	ss, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextSupervisor(ctx echo.Context) (core.Supervisor, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return core.Supervisor{}, err
	}
	return claims.Supervisor(), nil
}

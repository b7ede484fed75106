package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/almapaid/backend/core"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64 `json:"oriat,omitempty"`
	IsAdmin      bool  `json:"is_admin,omitempty"`
}

// authenticator guards the back-office endpoints with the single configured
// admin credential. Account management proper lives outside this service.
type authenticator struct {
	conf      *core.Config
	jwtConfig middleware.JWTConfig
}

func newAuthenticator(conf *core.Config) *authenticator {
	return &authenticator{
		conf: conf,
		jwtConfig: middleware.JWTConfig{
			SigningKey:    []byte(conf.SecretKey),
			SigningMethod: middleware.AlgorithmHS256,
			ContextKey:    "adminToken",
			Claims:        new(Claims),
		},
	}
}

func (a *authenticator) middleware() echo.MiddlewareFunc {
	return middleware.JWTWithConfig(a.jwtConfig)
}

func (a *authenticator) getClaims(origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	var oriat int64
	if len(origIat) > 0 {
		oriat = origIat[0]
	} else {
		oriat = nownix
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    a.conf.AppName,
			Subject:   a.conf.Admin.Username,
			ExpiresAt: now.Add(a.conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		IsAdmin:      true,
	}
}

func (a *authenticator) authenticate(username, password string) (*Claims, error) {
	if username != a.conf.Admin.Username || a.conf.Admin.PasswordHash == "" {
		return nil, errAuthenticationFailed
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.conf.Admin.PasswordHash), []byte(password)); err != nil {
		return nil, errAuthenticationFailed
	}
	return a.getClaims(), nil
}

// generateToken generates a signed JWT token string representing the Claims.
func (a *authenticator) generateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(a.jwtConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(a.jwtConfig.SigningKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func (a *authenticator) refresh(ctx echo.Context) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting context claims")
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(a.conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return "", errRefreshExpired
	}

	token, err := a.generateToken(a.getClaims(claims.OrigIssuedAt))
	return token, errors.Wrap(err, "generating token")
}

// Handlers

func (a *authenticator) login(ctx echo.Context) error {
	data := new(LoginRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := a.authenticate(data.Username, data.Password)
	if err != nil {
		return err
	}
	token, err := a.generateToken(claims)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (a *authenticator) tokenRefresh(ctx echo.Context) error {
	token, err := a.refresh(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get("adminToken").(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func adminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if claims.IsAdmin {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

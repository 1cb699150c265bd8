package jwt

import (
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/presensia/attendance-backend-go/internal/domain/user"
)

type Service interface {
	GenerateAccessToken(userID string, employeeID *string, companyID string, role user.Role) (token string, expiresAt int64, err error)

	// MintPunchToken issues the short-lived token returned by punch
	// validation. It binds employee, direction and calendar day so a stale
	// or replayed token cannot commit a different punch.
	MintPunchToken(employeeID, companyID, direction, date string) (token string, expiresAt int64, err error)
	ValidatePunchToken(tokenString, employeeID, direction, date string) error

	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	punchTokenTTL             string
	tokenAuth                 *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string, punchTokenTTL string) Service {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		punchTokenTTL:             punchTokenTTL,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(userID string, employeeID *string, companyID string, role user.Role) (string, int64, error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt := time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id":    userID,
		"company_id": companyID,
		"role":       string(role),
		"type":       "access",
		"exp":        expiresAt,
	}
	if employeeID != nil {
		claims["employee_id"] = *employeeID
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) MintPunchToken(employeeID, companyID, direction, date string) (string, int64, error) {
	ttl, err := time.ParseDuration(j.punchTokenTTL)
	if err != nil {
		return "", 0, err
	}
	expiresAt := time.Now().Add(ttl).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"company_id":  companyID,
		"direction":   direction,
		"date":        date,
		"type":        "punch",
		"exp":         expiresAt,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) ValidatePunchToken(tokenString, employeeID, direction, date string) error {
	token, err := j.tokenAuth.Decode(tokenString)
	if err != nil {
		return fmt.Errorf("decode punch token: %w", err)
	}

	// Decode only checks the signature; expiry is a claim validation.
	if err := jwt.Validate(token, jwt.WithAcceptableSkew(30*time.Second)); err != nil {
		return fmt.Errorf("validate punch token: %w", err)
	}

	if v, ok := token.Get("type"); !ok || v != "punch" {
		return jwt.ErrInvalidJWT()
	}
	if v, ok := token.Get("employee_id"); !ok || v != employeeID {
		return jwt.ErrInvalidJWT()
	}
	if v, ok := token.Get("direction"); !ok || v != direction {
		return jwt.ErrInvalidJWT()
	}
	if v, ok := token.Get("date"); !ok || v != date {
		return jwt.ErrInvalidJWT()
	}

	return nil
}

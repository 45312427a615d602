package utils

import (
	"fmt"

	"github.com/golang-jwt/jwt"
	"github.com/spf13/viper"

	"github.com/veiligstallen/reports/internal/domain"
	"github.com/veiligstallen/reports/internal/pkg/constants"
)

// ContextClaims is the payload of the context token the surrounding
// application mints for each caller: the accessible facility set and the
// reporting-admin flag. The engine trusts the signature, nothing more.
type ContextClaims struct {
	BikeparkIDs  []string `json:"bikeparkIDs"`
	ReportsAdmin bool     `json:"reportsAdmin"`
	jwt.StandardClaims
}

// ParseContextToken verifies tokenStr against the shared secret and
// returns the caller's authorization context.
func ParseContextToken(tokenStr string) (*domain.AuthContext, error) {
	claims := &ContextClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(viper.GetString(constants.ViperSecretKey)), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", constants.ErrUnauthorized, err.Error())
	}
	if !token.Valid {
		return nil, constants.ErrUnauthorized
	}

	return &domain.AuthContext{
		BikeparkIDs:  claims.BikeparkIDs,
		ReportsAdmin: claims.ReportsAdmin,
	}, nil
}

// GenerateContextToken signs an authorization context; the surrounding
// application uses the same routine, and tests mint tokens with it.
func GenerateContextToken(auth domain.AuthContext) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &ContextClaims{
		BikeparkIDs:  auth.BikeparkIDs,
		ReportsAdmin: auth.ReportsAdmin,
	})
	return token.SignedString([]byte(viper.GetString(constants.ViperSecretKey)))
}

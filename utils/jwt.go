package utils

import (
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/glimora/glimora-backend-go/config"
	"github.com/glimora/glimora-backend-go/models"
)

type Claims struct {
	Email           string      `json:"email"`
	FirstName       string      `json:"firstName"`
	LastName        string      `json:"lastName"`
	Role            models.Role `json:"role"`
	IsEmailVerified bool        `json:"isEmailVerified"`
	Image           string      `json:"image"`
	jwt.StandardClaims
}

// GenerateToken issues a signed JWT carrying the user's profile claims.
// Profile updates re-issue the token so clients see fresh names and images
// without another login.
func GenerateToken(user *models.User) (string, error) {
	claims := &Claims{
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		Role:            user.Role,
		IsEmailVerified: user.IsEmailVerified,
		Image:           user.Image,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(72 * time.Hour).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.GetEnv("JWT_SECRET", "")))
}

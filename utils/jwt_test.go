package utils

import (
	"os"
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glimora/glimora-backend-go/models"
)

func TestGenerateTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := &models.User{
		Email:           "amara@example.com",
		FirstName:       "Amara",
		LastName:        "Perera",
		Role:            models.RoleUser,
		IsEmailVerified: true,
		Image:           "/user.png",
	}

	tokenString, err := GenerateToken(user)
	require.NoError(t, err)

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	assert.Equal(t, "amara@example.com", claims.Email)
	assert.Equal(t, "Amara", claims.FirstName)
	assert.Equal(t, "Perera", claims.LastName)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.True(t, claims.IsEmailVerified)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tokenString, err := GenerateToken(&models.User{Email: "x@example.com", Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte("a-different-secret"), nil
	})
	assert.Error(t, err)
}

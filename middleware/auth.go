package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/glimora/glimora-backend-go/database"
	"github.com/glimora/glimora-backend-go/models"
	"github.com/glimora/glimora-backend-go/utils"
)

const userContextKey = "authUser"

// AuthMiddleware attaches the caller's identity to the request context when a
// valid bearer token is present. Requests without an Authorization header
// pass through with no identity; handlers decide what anonymity means for
// them. A malformed or expired token is rejected outright, as is a token for
// a blocked account.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return next(c)
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid authorization header format"})
		}

		claims := &utils.Claims{}
		token, err := jwt.ParseWithClaims(tokenParts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid or expired token"})
		}

		// Block status lives on the user document, not in the token, so a
		// block takes effect before the token expires.
		var user models.User
		err = database.DB.Collection("users").FindOne(
			c.Request().Context(),
			bson.M{"email": claims.Email},
		).Decode(&user)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "User not found"})
		}
		if user.IsBlock {
			return c.JSON(http.StatusForbidden, map[string]string{"message": "User is blocked"})
		}

		c.Set(userContextKey, &models.AuthUser{
			Email:           user.Email,
			FirstName:       user.FirstName,
			LastName:        user.LastName,
			Role:            user.Role,
			IsEmailVerified: user.IsEmailVerified,
			Image:           user.Image,
		})
		return next(c)
	}
}

// CurrentUser returns the authenticated identity for the request, or nil when
// the request carried no token.
func CurrentUser(c echo.Context) *models.AuthUser {
	user, _ := c.Get(userContextKey).(*models.AuthUser)
	return user
}

// SetCurrentUser injects an identity into the context. Used by tests.
func SetCurrentUser(c echo.Context, user *models.AuthUser) {
	c.Set(userContextKey, user)
}

package handlers

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"net/mail"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/glimora/glimora-backend-go/database"
	"github.com/glimora/glimora-backend-go/middleware"
	"github.com/glimora/glimora-backend-go/models"
	"github.com/glimora/glimora-backend-go/utils"
)

// CreateUser registers a new customer account.
func CreateUser(c echo.Context) error {
	var req struct {
		Email     string `json:"email"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Password  string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request format"})
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid email format"})
	}
	if len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Password must be at least 6 characters long"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to create user"})
	}

	user := models.User{
		Email:          req.Email,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Password:       string(hashed),
		Role:           models.RoleUser,
		Image:          "/user.png",
		MembershipTier: models.TierBronze,
		Wishlist:       []models.WishlistItem{},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.DB.Collection("users").InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Email already registered"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to create user"})
	}

	return c.JSON(http.StatusCreated, map[string]string{"message": "User created successfully"})
}

// LoginUser verifies credentials and issues a JWT. Blocked accounts cannot
// log in even with the right password.
func LoginUser(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request format"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.DB.Collection("users").FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
	}

	if user.IsBlock {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "Your account has been blocked. Please contact admin."})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid password"})
	}

	token, err := utils.GenerateToken(&user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error during login"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   token,
		"user": map[string]interface{}{
			"email":           user.Email,
			"firstName":       user.FirstName,
			"lastName":        user.LastName,
			"role":            user.Role,
			"isEmailVerified": user.IsEmailVerified,
		},
	})
}

// GetUser echoes the authenticated identity.
func GetUser(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}
	return c.JSON(http.StatusOK, user)
}

// GetAllUsers lists every account. Admin only.
func GetAllUsers(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil || !user.Role.IsAdmin() {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "Forbidden"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.DB.Collection("users").Find(ctx, bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to get users"})
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to get users"})
	}

	return c.JSON(http.StatusOK, users)
}

// BlockOrUnblockUser toggles an account's block flag. Admins cannot block
// themselves.
func BlockOrUnblockUser(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil || !user.Role.IsAdmin() {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "Forbidden"})
	}

	email := c.Param("email")
	if user.Email == email {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "You cannot block yourself"})
	}

	var req struct {
		IsBlock bool `json:"isBlock"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request format"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := database.DB.Collection("users").UpdateOne(
		ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"isBlock": req.IsBlock}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to block/unblock user"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "User block status updated successfully"})
}

// UpdateUserProfile applies a partial profile update and re-issues the token
// so the client's claims match the stored profile.
func UpdateUserProfile(c echo.Context) error {
	authUser := middleware.CurrentUser(c)
	if authUser == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}

	var req struct {
		FirstName string  `json:"firstName"`
		LastName  string  `json:"lastName"`
		Image     string  `json:"image"`
		Phone     *string `json:"phone"`
		Address   *string `json:"address"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request format"})
	}

	set := bson.M{}
	if req.FirstName != "" {
		set["firstName"] = req.FirstName
	}
	if req.LastName != "" {
		set["lastName"] = req.LastName
	}
	if req.Image != "" {
		set["image"] = req.Image
	}
	if req.Phone != nil {
		set["phone"] = *req.Phone
	}
	if req.Address != nil {
		set["address"] = *req.Address
	}

	if len(set) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Nothing to update"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var updated models.User
	err := database.DB.Collection("users").FindOneAndUpdate(
		ctx,
		bson.M{"email": authUser.Email},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to update profile"})
	}

	token, err := utils.GenerateToken(&updated)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to update profile"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Profile updated successfully",
		"token":   token,
		"user": map[string]interface{}{
			"email":           updated.Email,
			"firstName":       updated.FirstName,
			"lastName":        updated.LastName,
			"role":            updated.Role,
			"isEmailVerified": updated.IsEmailVerified,
			"image":           updated.Image,
			"phone":           updated.Phone,
			"address":         updated.Address,
		},
	})
}

// UpdatePassword changes the caller's password, verifying the current one
// when supplied.
func UpdatePassword(c echo.Context) error {
	authUser := middleware.CurrentUser(c)
	if authUser == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}

	var req struct {
		CurrentPassword string `json:"currentPassword"`
		Password        string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request format"})
	}
	if len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Password must be at least 6 characters long"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.DB.Collection("users").FindOne(ctx, bson.M{"email": authUser.Email}).Decode(&user)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to update password"})
	}

	if req.CurrentPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Current password is incorrect"})
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to update password"})
	}

	_, err = database.DB.Collection("users").UpdateOne(
		ctx,
		bson.M{"email": authUser.Email},
		bson.M{"$set": bson.M{"password": string(hashed)}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to update password"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

// SendOTP emails a six-digit reset code, replacing any previous codes for
// the address.
func SendOTP(c echo.Context) error {
	email := c.Param("email")
	if email == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Email is required"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.DB.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
	}

	otp, err := generateOTP()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to send OTP"})
	}

	if _, err := database.DB.Collection("otps").DeleteMany(ctx, bson.M{"email": email}); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to send OTP"})
	}
	_, err = database.DB.Collection("otps").InsertOne(ctx, models.OTP{
		Email:     email,
		Code:      otp,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to send OTP"})
	}

	if err := utils.SendOTPEmail(email, user.FirstName, otp); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to send OTP"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "OTP sent to your email"})
}

// ChangePasswordViaOTP resets a password given a valid emailed code. Codes
// are single-use; all codes for the address are removed on success.
func ChangePasswordViaOTP(c echo.Context) error {
	var req struct {
		Email       string `json:"email"`
		OTP         string `json:"otp"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request format"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := database.DB.Collection("otps").FindOne(ctx, bson.M{"email": req.Email, "otp": req.OTP}).Err()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid OTP"})
	}

	if _, err := database.DB.Collection("otps").DeleteMany(ctx, bson.M{"email": req.Email}); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to change password"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to change password"})
	}

	_, err = database.DB.Collection("users").UpdateOne(
		ctx,
		bson.M{"email": req.Email},
		bson.M{"$set": bson.M{"password": string(hashed)}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to change password"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Password changed successfully"})
}

// GetMembershipInfo reports the caller's loyalty standing. The tier is
// recomputed from points on every read; the stored tier is only a cache and
// is refreshed here when stale.
func GetMembershipInfo(c echo.Context) error {
	authUser := middleware.CurrentUser(c)
	if authUser == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := database.DB.Collection("users").FindOne(ctx, bson.M{"email": authUser.Email}).Decode(&user)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
	}

	tier := models.TierForPoints(user.Points)
	if user.MembershipTier != tier {
		_, err := database.DB.Collection("users").UpdateOne(
			ctx,
			bson.M{"email": user.Email},
			bson.M{"$set": bson.M{"membershipTier": tier}},
		)
		if err != nil {
			c.Logger().Errorf("failed to refresh membership tier for %s: %v", user.Email, err)
		}
	}

	var nextTier interface{}
	if next := tier.NextTier(); next != "" {
		nextTier = next
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"points":           user.Points,
		"membershipTier":   tier,
		"discountRate":     tier.DiscountRate(),
		"nextTier":         nextTier,
		"pointsToNextTier": models.PointsToNextTier(user.Points),
	})
}

// generateOTP produces a random six-digit code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

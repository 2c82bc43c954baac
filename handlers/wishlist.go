package handlers

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/glimora/glimora-backend-go/database"
	"github.com/glimora/glimora-backend-go/middleware"
	"github.com/glimora/glimora-backend-go/models"
)

// AddToWishlist saves a product for later. Duplicates are rejected.
func AddToWishlist(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}

	var req struct {
		ProductID string `json:"productId"`
	}
	if err := c.Bind(&req); err != nil || req.ProductID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "productId is required"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := database.DB.Collection("products").FindOne(ctx, bson.M{"productID": req.ProductID}).Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	var u models.User
	err = database.DB.Collection("users").FindOne(ctx, bson.M{"email": user.Email}).Decode(&u)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	for _, item := range u.Wishlist {
		if item.ProductID == req.ProductID {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Product already in wishlist"})
		}
	}

	entry := models.WishlistItem{ProductID: req.ProductID, AddedAt: time.Now()}
	_, err = database.DB.Collection("users").UpdateOne(
		ctx,
		bson.M{"email": user.Email},
		bson.M{"$push": bson.M{"wishlist": entry}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "Product added to wishlist",
		"wishlist": append(u.Wishlist, entry),
	})
}

// RemoveFromWishlist drops one product from the caller's wishlist.
func RemoveFromWishlist(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := database.DB.Collection("users").UpdateOne(
		ctx,
		bson.M{"email": user.Email},
		bson.M{"$pull": bson.M{"wishlist": bson.M{"productId": c.Param("productId")}}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Product removed from wishlist"})
}

type wishlistEntry struct {
	Product models.Product `json:"product"`
	AddedAt time.Time      `json:"addedAt"`
}

// GetWishlist returns the caller's wishlist joined with current product data.
// Entries whose product has been deleted from the catalog are dropped.
func GetWishlist(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var u models.User
	err := database.DB.Collection("users").FindOne(ctx, bson.M{"email": user.Email}).Decode(&u)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
	}

	entries := []wishlistEntry{}
	for _, item := range u.Wishlist {
		var product models.Product
		err := database.DB.Collection("products").FindOne(ctx, bson.M{"productID": item.ProductID}).Decode(&product)
		if err != nil {
			continue
		}
		entries = append(entries, wishlistEntry{Product: product, AddedAt: item.AddedAt})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"wishlist": entries})
}

// ClearWishlist empties the caller's wishlist.
func ClearWishlist(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := database.DB.Collection("users").UpdateOne(
		ctx,
		bson.M{"email": user.Email},
		bson.M{"$set": bson.M{"wishlist": []models.WishlistItem{}}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Wishlist cleared"})
}

// GetAllWishlists lists every non-empty wishlist with owner info and item
// counts. Admin only.
func GetAllWishlists(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil || !user.Role.IsAdmin() {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "Forbidden"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.DB.Collection("users").Find(
		ctx, bson.M{"wishlist": bson.M{"$exists": true, "$ne": []models.WishlistItem{}}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	wishlists := []map[string]interface{}{}
	for _, u := range users {
		if len(u.Wishlist) == 0 {
			continue
		}
		wishlists = append(wishlists, map[string]interface{}{
			"userId":    u.ID,
			"userName":  u.FullName(),
			"email":     u.Email,
			"wishlist":  u.Wishlist,
			"itemCount": len(u.Wishlist),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"count":     len(wishlists),
		"wishlists": wishlists,
	})
}

type productWishCount struct {
	ProductID string
	Count     int
}

// wishlistCounts tallies how many users have each product wishlisted.
func wishlistCounts(users []models.User) map[string]int {
	counts := map[string]int{}
	for _, u := range users {
		for _, item := range u.Wishlist {
			counts[item.ProductID]++
		}
	}
	return counts
}

// topWishlisted returns the n most-wishlisted products, most popular first.
// Ties break by product ID so the ranking is stable.
func topWishlisted(counts map[string]int, n int) []productWishCount {
	ranked := make([]productWishCount, 0, len(counts))
	for id, count := range counts {
		ranked = append(ranked, productWishCount{ProductID: id, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].ProductID < ranked[j].ProductID
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// GetWishlistStats aggregates wishlist usage across all users. Admin only.
func GetWishlistStats(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil || !user.Role.IsAdmin() {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "Forbidden"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.DB.Collection("users").Find(ctx, bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Server error"})
	}

	usersWithWishlist := 0
	totalItems := 0
	for _, u := range users {
		if len(u.Wishlist) > 0 {
			usersWithWishlist++
		}
		totalItems += len(u.Wishlist)
	}

	average := "0"
	if usersWithWishlist > 0 {
		average = fmt.Sprintf("%.2f", float64(totalItems)/float64(usersWithWishlist))
	}

	top := []map[string]interface{}{}
	for _, entry := range topWishlisted(wishlistCounts(users), 10) {
		var product models.Product
		err := database.DB.Collection("products").FindOne(
			ctx, bson.M{"productID": entry.ProductID},
		).Decode(&product)
		if err != nil {
			continue
		}
		top = append(top, map[string]interface{}{
			"product":       product,
			"wishlistCount": entry.Count,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"totalUsersWithWishlist": usersWithWishlist,
		"totalWishlistItems":     totalItems,
		"averageItemsPerUser":    average,
		"topProducts":            top,
	})
}

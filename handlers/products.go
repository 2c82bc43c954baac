package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/glimora/glimora-backend-go/database"
	"github.com/glimora/glimora-backend-go/middleware"
	"github.com/glimora/glimora-backend-go/models"
)

// GetProducts lists the catalog. Customers and anonymous callers see only
// available products; admins see everything.
func GetProducts(c echo.Context) error {
	user := middleware.CurrentUser(c)

	filter := bson.M{"isAvailable": true}
	if user != nil && user.Role.IsAdmin() {
		filter = bson.M{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.DB.Collection("products").Find(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to get products"})
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to get products"})
	}

	return c.JSON(http.StatusOK, products)
}

func GetProduct(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var product models.Product
	err := database.DB.Collection("products").FindOne(
		ctx, bson.M{"productID": c.Param("productID")},
	).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to get product"})
	}

	return c.JSON(http.StatusOK, product)
}

// CreateProduct adds a catalog entry. Admin only.
func CreateProduct(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil || !user.Role.IsAdmin() {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "Forbidden"})
	}

	var product models.Product
	if err := c.Bind(&product); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request format"})
	}
	if product.ProductID == "" || product.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "productID and name are required"})
	}

	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.DB.Collection("products").InsertOne(ctx, product); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Product ID already exists"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to create product"})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Product created successfully",
		"data":    product,
	})
}

// UpdateProduct replaces the mutable fields of a catalog entry. Admin only.
// Existing orders keep their purchase-time snapshots regardless.
func UpdateProduct(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil || !user.Role.IsAdmin() {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "Forbidden"})
	}

	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Category    *string  `json:"category"`
		Price       *int64   `json:"price"`
		Stock       *int64   `json:"stock"`
		Images      []string `json:"images"`
		IsAvailable *bool    `json:"isAvailable"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request format"})
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Category != nil {
		set["category"] = *req.Category
	}
	if req.Price != nil {
		set["price"] = *req.Price
	}
	if req.Stock != nil {
		set["stock"] = *req.Stock
	}
	if req.Images != nil {
		set["images"] = req.Images
	}
	if req.IsAvailable != nil {
		set["isAvailable"] = *req.IsAvailable
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.DB.Collection("products").UpdateOne(
		ctx,
		bson.M{"productID": c.Param("productID")},
		bson.M{"$set": set},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to update product"})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Product not found"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Product updated successfully"})
}

// DeleteProduct removes a catalog entry. Admin only.
func DeleteProduct(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil || !user.Role.IsAdmin() {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "Forbidden"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.DB.Collection("products").DeleteOne(
		ctx, bson.M{"productID": c.Param("productID")},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to delete product"})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Product not found"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

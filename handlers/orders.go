package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/glimora/glimora-backend-go/database"
	"github.com/glimora/glimora-backend-go/middleware"
	"github.com/glimora/glimora-backend-go/models"
	"github.com/glimora/glimora-backend-go/utils"
)

type CreateOrderRequest struct {
	Items []struct {
		ProductID string `json:"productID"`
		Quantity  int64  `json:"quantity"`
	} `json:"items"`
	CustomerName   string                 `json:"customerName"`
	Phone          string                 `json:"phone"`
	Address        string                 `json:"address"`
	PaymentMethod  models.PaymentMethod   `json:"paymentMethod"`
	PaymentDetails *models.PaymentDetails `json:"paymentDetails"`
}

// CreateOrder places an order for the authenticated customer. Items are
// validated against the catalog in request order, snapshotted into the order
// document, and loyalty points are credited to the buyer.
func CreateOrder(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized user"})
	}

	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request format"})
	}

	if req.Items == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Items are required to place an order"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	products := database.DB.Collection("products")

	var items []models.OrderItem
	var total int64

	for _, item := range req.Items {
		var product models.Product
		err := products.FindOne(ctx, bson.M{"productID": item.ProductID}).Decode(&product)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return c.JSON(http.StatusNotFound, map[string]interface{}{
					"code":      "not-found",
					"message":   fmt.Sprintf("Product with ID %s not found", item.ProductID),
					"productID": item.ProductID,
				})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
		}

		if product.Stock < item.Quantity {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"code":           "stock",
				"message":        fmt.Sprintf("Insufficient stock for product with ID %s", item.ProductID),
				"productID":      item.ProductID,
				"availableStock": product.Stock,
			})
		}

		items = append(items, models.OrderItem{
			ProductID: product.ProductID,
			Quantity:  item.Quantity,
			Name:      product.Name,
			Price:     product.Price,
			Image:     product.FirstImage(),
		})
		total += product.Price * item.Quantity
	}

	seq, err := database.NextOrderSequence(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	customerName := req.CustomerName
	if customerName == "" {
		customerName = user.FullName()
	}
	phone := req.Phone
	if phone == "" {
		phone = "Not provided"
	}
	method := req.PaymentMethod
	if method == "" {
		method = models.PaymentCashOnDelivery
	}
	details := models.PaymentDetails{}
	if req.PaymentDetails != nil {
		details = *req.PaymentDetails
	}

	order := models.Order{
		OrderID:            utils.FormatOrderID(seq),
		Items:              items,
		CustomerName:       customerName,
		Email:              user.Email,
		Phone:              phone,
		Address:            req.Address,
		Total:              total,
		Status:             models.OrderStatusPending,
		PaymentStatus:      method.InitialPaymentStatus(),
		PaymentMethod:      method,
		PaymentDetails:     details,
		ShippingStatus:     models.ShippingToShip,
		ReviewStatus:       models.ReviewNotReviewed,
		ReturnStatus:       models.ReturnNone,
		CancellationStatus: models.CancellationNone,
		CustomerFeedback:   []models.FeedbackEntry{},
		Date:               time.Now(),
	}

	if _, err := database.DB.Collection("orders").InsertOne(ctx, order); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	// Award points: 1 per 100 units spent.
	pointsEarned := models.PointsForTotal(total)
	_, err = database.DB.Collection("users").UpdateOne(
		ctx,
		bson.M{"email": user.Email},
		bson.M{"$inc": bson.M{"points": pointsEarned}},
	)
	if err != nil {
		// Order exists; points didn't land. Single-document writes only, no
		// cross-collection transaction here.
		c.Logger().Errorf("failed to award points for order %s: %v", order.OrderID, err)
	}

	// Stock is checked but not decremented. The decrement was disabled in the
	// storefront this replaces; do not "fix" without product sign-off.

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":      "Order created successfully",
		"order":        order,
		"pointsEarned": pointsEarned,
	})
}

// GetOrders lists all orders for admins and the caller's own for customers,
// newest first.
func GetOrders(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}

	filter := bson.M{}
	switch {
	case user.Role.IsAdmin():
		// all orders
	case user.Role.IsCustomer():
		filter["email"] = user.Email
	default:
		return c.JSON(http.StatusForbidden, map[string]string{"message": "You are not authorized to view orders"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.DB.Collection("orders").Find(
		ctx, filter, options.Find().SetSort(bson.M{"date": -1}),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to get orders"})
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to get orders"})
	}

	return c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus sets the coarse fulfillment status. Admin only; the
// value is free-form by design.
func UpdateOrderStatus(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil || !user.Role.IsAdmin() {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "You are not authorized to update order status"})
	}

	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request format"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := database.DB.Collection("orders").UpdateOne(
		ctx,
		bson.M{"orderID": c.Param("orderID")},
		bson.M{"$set": bson.M{"status": req.Status}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to update order status"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Order status updated successfully"})
}

// loadCustomerOrder fetches the order named in the route and enforces
// ownership: an absent order is 404, someone else's order is 403. On failure
// the response has already been written; callers return the error as-is.
func loadCustomerOrder(ctx context.Context, c echo.Context, email string) (*models.Order, error) {
	var order models.Order
	err := database.DB.Collection("orders").FindOne(
		ctx, bson.M{"orderID": c.Param("orderID")},
	).Decode(&order)
	if err != nil {
		return nil, c.JSON(http.StatusNotFound, map[string]string{"message": "Order not found"})
	}
	if order.Email != email {
		return nil, c.JSON(http.StatusForbidden, map[string]string{"message": "You can only manage your own orders"})
	}
	return &order, nil
}

// RequestCancellation lets a customer ask to cancel an undelivered order.
func RequestCancellation(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil || !user.Role.IsCustomer() {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "You are not authorized to cancel orders"})
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request format"})
	}
	if req.Reason == "" {
		req.Reason = "No reason provided"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	order, respErr := loadCustomerOrder(ctx, c, user.Email)
	if order == nil {
		return respErr
	}

	if !order.CanRequestCancellation() {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Cannot cancel delivered orders"})
	}

	_, err := database.DB.Collection("orders").UpdateOne(
		ctx,
		bson.M{"orderID": order.OrderID},
		bson.M{"$set": bson.M{
			"cancellationStatus": models.CancellationRequested,
			"cancellationReason": req.Reason,
		}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to request cancellation"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Cancellation requested successfully"})
}

// RequestReturn lets a customer ask to return a delivered order.
func RequestReturn(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil || !user.Role.IsCustomer() {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "You are not authorized to return orders"})
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request format"})
	}
	if req.Reason == "" {
		req.Reason = "No reason provided"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	order, respErr := loadCustomerOrder(ctx, c, user.Email)
	if order == nil {
		return respErr
	}

	if !order.CanRequestReturn() {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Can only return delivered orders"})
	}

	_, err := database.DB.Collection("orders").UpdateOne(
		ctx,
		bson.M{"orderID": order.OrderID},
		bson.M{"$set": bson.M{
			"returnStatus": models.ReturnRequested,
			"returnReason": req.Reason,
		}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to request return"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Return requested successfully"})
}

// ConfirmReceived marks a customer's order as received: shipping goes to
// received and the order to delivered in one update.
func ConfirmReceived(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil || !user.Role.IsCustomer() {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "You are not authorized"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	order, respErr := loadCustomerOrder(ctx, c, user.Email)
	if order == nil {
		return respErr
	}

	_, err := database.DB.Collection("orders").UpdateOne(
		ctx,
		bson.M{"orderID": order.OrderID},
		bson.M{"$set": bson.M{
			"shippingStatus": models.ShippingReceived,
			"status":         models.OrderStatusDelivered,
		}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to confirm receipt"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Order confirmed as received"})
}

// AddOrderFeedback appends a customer message to the order's feedback thread.
func AddOrderFeedback(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil || !user.Role.IsCustomer() {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "You are not authorized"})
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil || req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Feedback message is required"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	order, respErr := loadCustomerOrder(ctx, c, user.Email)
	if order == nil {
		return respErr
	}

	if err := appendOrderFeedback(ctx, order.OrderID, req.Message, false); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to add feedback"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Feedback added successfully"})
}

// AddAdminResponse appends an admin message to the order's feedback thread.
// Admins skip the ownership check.
func AddAdminResponse(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil || !user.Role.IsAdmin() {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "You are not authorized"})
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil || req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Response message is required"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	orderID := c.Param("orderID")
	err := database.DB.Collection("orders").FindOne(ctx, bson.M{"orderID": orderID}).Err()
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Order not found"})
	}

	if err := appendOrderFeedback(ctx, orderID, req.Message, true); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to add response"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Response added successfully"})
}

// appendOrderFeedback pushes one timestamped entry onto customerFeedback.
// The thread is append-only; entries are never edited or removed.
func appendOrderFeedback(ctx context.Context, orderID, message string, isAdmin bool) error {
	_, err := database.DB.Collection("orders").UpdateOne(
		ctx,
		bson.M{"orderID": orderID},
		bson.M{"$push": bson.M{"customerFeedback": models.FeedbackEntry{
			Message: message,
			Date:    time.Now(),
			IsAdmin: isAdmin,
		}}},
	)
	return err
}

// UpdatePaymentStatus lets an admin set the payment sub-state directly.
// Setting paid stamps the payment date.
func UpdatePaymentStatus(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil || !user.Role.IsAdmin() {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "You are not authorized"})
	}

	var req struct {
		PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	}
	if err := c.Bind(&req); err != nil || !req.PaymentStatus.Valid() {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Valid payment status is required (unpaid, paid, pending)"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	orderID := c.Param("orderID")
	err := database.DB.Collection("orders").FindOne(ctx, bson.M{"orderID": orderID}).Err()
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Order not found"})
	}

	set := bson.M{"paymentStatus": req.PaymentStatus}
	if req.PaymentStatus == models.PaymentStatusPaid {
		set["paymentDetails.paymentDate"] = time.Now()
	}

	_, err = database.DB.Collection("orders").UpdateOne(ctx, bson.M{"orderID": orderID}, bson.M{"$set": set})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to update payment status"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Payment status updated successfully"})
}

// ApprovePayment moves a pending payment to paid. Any other starting state is
// rejected.
func ApprovePayment(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil || !user.Role.IsAdmin() {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "You are not authorized"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	orderID := c.Param("orderID")
	var order models.Order
	err := database.DB.Collection("orders").FindOne(ctx, bson.M{"orderID": orderID}).Decode(&order)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Order not found"})
	}

	if !order.PaymentDecidable() {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Only pending payments can be approved"})
	}

	_, err = database.DB.Collection("orders").UpdateOne(
		ctx,
		bson.M{"orderID": orderID},
		bson.M{"$set": bson.M{
			"paymentStatus":              models.PaymentStatusPaid,
			"paymentDetails.paymentDate": time.Now(),
		}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to approve payment"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Payment approved successfully"})
}

// RejectPayment moves a pending payment back to unpaid and records why.
func RejectPayment(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil || !user.Role.IsAdmin() {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "You are not authorized"})
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request format"})
	}
	if req.Reason == "" {
		req.Reason = "Payment verification failed"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	orderID := c.Param("orderID")
	var order models.Order
	err := database.DB.Collection("orders").FindOne(ctx, bson.M{"orderID": orderID}).Decode(&order)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Order not found"})
	}

	if !order.PaymentDecidable() {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Only pending payments can be rejected"})
	}

	_, err = database.DB.Collection("orders").UpdateOne(
		ctx,
		bson.M{"orderID": orderID},
		bson.M{"$set": bson.M{
			"paymentStatus":                  models.PaymentStatusUnpaid,
			"paymentDetails.rejectionReason": req.Reason,
		}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to reject payment"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Payment rejected successfully"})
}

type UpdateTrackingRequest struct {
	TrackingNumber    string     `json:"trackingNumber"`
	CourierService    string     `json:"courierService"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery"`
	TrackingURL       string     `json:"trackingUrl"`
}

// UpdateTrackingInfo sets carrier metadata. Supplying a tracking number while
// the order is still to-ship auto-advances shipping to shipped.
func UpdateTrackingInfo(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil || !user.Role.IsAdmin() {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "You are not authorized"})
	}

	var req UpdateTrackingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request format"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	orderID := c.Param("orderID")
	var order models.Order
	err := database.DB.Collection("orders").FindOne(ctx, bson.M{"orderID": orderID}).Decode(&order)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Order not found"})
	}

	set := bson.M{}
	if req.TrackingNumber != "" {
		set["trackingInfo.trackingNumber"] = req.TrackingNumber
	}
	if req.CourierService != "" {
		set["trackingInfo.courierService"] = req.CourierService
	}
	if req.EstimatedDelivery != nil {
		set["trackingInfo.estimatedDelivery"] = req.EstimatedDelivery
	}
	if req.TrackingURL != "" {
		set["trackingInfo.trackingUrl"] = req.TrackingURL
	}
	if req.TrackingNumber != "" && order.ShippingStatus == models.ShippingToShip {
		set["shippingStatus"] = models.ShippingShipped
	}

	if len(set) > 0 {
		_, err = database.DB.Collection("orders").UpdateOne(ctx, bson.M{"orderID": orderID}, bson.M{"$set": set})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to update tracking information"})
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Tracking information updated successfully"})
}

// AddTrackingUpdate appends one timestamped event to the order's tracking
// history. The history is append-only; there is no edit or delete.
func AddTrackingUpdate(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil || !user.Role.IsAdmin() {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "You are not authorized"})
	}

	var req struct {
		Status      string `json:"status"`
		Location    string `json:"location"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil || req.Status == "" || req.Description == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Status and description are required"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	orderID := c.Param("orderID")
	err := database.DB.Collection("orders").FindOne(ctx, bson.M{"orderID": orderID}).Err()
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Order not found"})
	}

	_, err = database.DB.Collection("orders").UpdateOne(
		ctx,
		bson.M{"orderID": orderID},
		bson.M{"$push": bson.M{"trackingInfo.trackingUpdates": models.TrackingUpdate{
			Status:      req.Status,
			Location:    req.Location,
			Description: req.Description,
			Timestamp:   time.Now(),
		}}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to add tracking update"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Tracking update added successfully"})
}

// MarkOrderNotificationSeen clears the admin-facing notification flag.
func MarkOrderNotificationSeen(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil || !user.Role.IsAdmin() {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "Forbidden"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.DB.Collection("orders").UpdateOne(
		ctx,
		bson.M{"orderID": c.Param("orderID")},
		bson.M{"$set": bson.M{"notificationSeen": true}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to mark notification as seen"})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Order not found"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Notification marked as seen"})
}

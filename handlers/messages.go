package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/glimora/glimora-backend-go/database"
	"github.com/glimora/glimora-backend-go/middleware"
	"github.com/glimora/glimora-backend-go/models"
)

func messageByID(ctx context.Context, c echo.Context) (*models.Message, primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return nil, primitive.NilObjectID, err
	}
	var msg models.Message
	err = database.DB.Collection("messages").FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if err != nil {
		return nil, primitive.NilObjectID, err
	}
	return &msg, id, nil
}

// CreateMessage opens a new support thread for the authenticated user.
func CreateMessage(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}

	var req struct {
		Category models.MessageCategory `json:"category"`
		Subject  string                 `json:"subject"`
		Message  string                 `json:"message"`
	}
	if err := c.Bind(&req); err != nil || !req.Category.Valid() || req.Subject == "" || req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Category, subject, and message are required"})
	}

	now := time.Now()
	msg := models.Message{
		ID:          primitive.NewObjectID(),
		SenderEmail: user.Email,
		SenderName:  user.FullName(),
		SenderRole:  models.RoleUser,
		Category:    req.Category,
		Subject:     req.Subject,
		Message:     req.Message,
		Status:      models.MessagePending,
		Replies:     []models.MessageReply{},
		UserRead:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.DB.Collection("messages").InsertOne(ctx, msg); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to send message"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Message sent successfully",
		"data":    msg,
	})
}

// GetUserMessages returns threads the caller started plus admin messages
// addressed to them, newest first.
func GetUserMessages(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.DB.Collection("messages").Find(
		ctx,
		bson.M{"$or": []bson.M{
			{"senderEmail": user.Email},
			{"recipientEmail": user.Email},
		}},
		options.Find().SetSort(bson.M{"createdAt": -1}),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to get messages"})
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to get messages"})
	}

	return c.JSON(http.StatusOK, messages)
}

// GetAllMessages returns every thread, optionally filtered by category and
// status query params. Admin only.
func GetAllMessages(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil || !user.Role.IsAdmin() {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "Forbidden"})
	}

	filter := bson.M{}
	if category := c.QueryParam("category"); category != "" {
		filter["category"] = category
	}
	if status := c.QueryParam("status"); status != "" {
		filter["status"] = status
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.DB.Collection("messages").Find(
		ctx, filter, options.Find().SetSort(bson.M{"createdAt": -1}),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to get messages"})
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err := cursor.All(ctx, &messages); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to get messages"})
	}

	return c.JSON(http.StatusOK, messages)
}

// GetMessageByID returns one thread to its owner or any admin.
func GetMessageByID(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg, _, err := messageByID(ctx, c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Message not found"})
	}

	if !msg.OwnedBy(user.Email) && !user.Role.IsAdmin() {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "Forbidden"})
	}

	return c.JSON(http.StatusOK, msg)
}

// ReplyToMessage appends a reply. An admin reply to a pending thread flips it
// to replied.
func ReplyToMessage(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil || req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Reply message is required"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg, id, err := messageByID(ctx, c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Message not found"})
	}

	if !msg.OwnedBy(user.Email) && !user.Role.IsAdmin() {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "Forbidden"})
	}

	role := models.RoleUser
	if user.Role.IsAdmin() {
		role = models.RoleAdmin
	}

	update := bson.M{
		"$push": bson.M{"replies": models.MessageReply{
			SenderEmail: user.Email,
			SenderName:  user.FullName(),
			SenderRole:  role,
			Message:     req.Message,
			CreatedAt:   time.Now(),
		}},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	if user.Role.IsAdmin() && msg.Status == models.MessagePending {
		update["$set"].(bson.M)["status"] = models.MessageReplied
	}

	var updated models.Message
	err = database.DB.Collection("messages").FindOneAndUpdate(
		ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to send reply"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Reply sent successfully",
		"data":    updated,
	})
}

// UpdateMessageStatus sets a thread's status. Admin only.
func UpdateMessageStatus(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil || !user.Role.IsAdmin() {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "Forbidden"})
	}

	var req struct {
		Status models.MessageStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil || !req.Status.Valid() {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Valid status is required (pending, replied, closed)"})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Message not found"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var updated models.Message
	err = database.DB.Collection("messages").FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": req.Status, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Message not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to update status"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Status updated successfully",
		"data":    updated,
	})
}

// DeleteMessage removes any thread. Admin only.
func DeleteMessage(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil || !user.Role.IsAdmin() {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "Forbidden"})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Message not found"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.DB.Collection("messages").DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to delete message"})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Message not found"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Message deleted successfully"})
}

// DeleteUserMessage lets a user remove a thread they started.
func DeleteUserMessage(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg, id, err := messageByID(ctx, c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Message not found"})
	}

	if !msg.OwnedBy(user.Email) {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "You can only delete your own messages"})
	}

	if _, err := database.DB.Collection("messages").DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to delete message"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Message deleted successfully"})
}

// SendAdminMessage starts an admin-to-user thread. It begins pending and
// unread by the recipient.
func SendAdminMessage(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil || !user.Role.IsAdmin() {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "Forbidden"})
	}

	var req struct {
		RecipientEmail string                 `json:"recipientEmail"`
		RecipientName  string                 `json:"recipientName"`
		Category       models.MessageCategory `json:"category"`
		Subject        string                 `json:"subject"`
		Message        string                 `json:"message"`
	}
	if err := c.Bind(&req); err != nil ||
		req.RecipientEmail == "" || req.RecipientName == "" ||
		!req.Category.Valid() || req.Subject == "" || req.Message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "All fields are required"})
	}

	now := time.Now()
	msg := models.Message{
		ID:             primitive.NewObjectID(),
		SenderEmail:    user.Email,
		SenderName:     user.FullName(),
		SenderRole:     models.RoleAdmin,
		RecipientEmail: req.RecipientEmail,
		RecipientName:  req.RecipientName,
		Category:       req.Category,
		Subject:        req.Subject,
		Message:        req.Message,
		Status:         models.MessagePending,
		Replies:        []models.MessageReply{},
		UserRead:       false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.DB.Collection("messages").InsertOne(ctx, msg); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to send message"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Message sent to user successfully",
		"data":    msg,
	})
}

// MarkMessageRead sets the admin-read flag. Admin only.
func MarkMessageRead(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil || !user.Role.IsAdmin() {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "Forbidden"})
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Message not found"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.DB.Collection("messages").UpdateOne(
		ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"adminRead": true}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to mark message as read"})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Message not found"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Message marked as read"})
}

// MarkUserMessageRead sets the user-read flag on the caller's own message.
func MarkUserMessageRead(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg, id, err := messageByID(ctx, c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Message not found"})
	}

	if !msg.OwnedBy(user.Email) && msg.RecipientEmail != user.Email {
		return c.JSON(http.StatusForbidden, map[string]string{"message": "Forbidden"})
	}

	var updated models.Message
	err = database.DB.Collection("messages").FindOneAndUpdate(
		ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"userRead": true}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Failed to mark message as read"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Message marked as read",
		"data":    updated,
	})
}

// ToggleArchiveMessage flips the archived flag on the caller's own message.
func ToggleArchiveMessage(c echo.Context) error {
	return toggleMessageFlag(c, "archived",
		"You can only archive your own messages",
		"Message archived", "Message unarchived",
		"Failed to toggle archive")
}

// ToggleStarMessage flips the starred flag on the caller's own message.
func ToggleStarMessage(c echo.Context) error {
	return toggleMessageFlag(c, "starred",
		"You can only star your own messages",
		"Message starred", "Message unstarred",
		"Failed to toggle star")
}

func toggleMessageFlag(c echo.Context, field, notOwnerMsg, onMsg, offMsg, failMsg string) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg, id, err := messageByID(ctx, c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "Message not found"})
	}

	if !msg.OwnedBy(user.Email) {
		return c.JSON(http.StatusForbidden, map[string]string{"message": notOwnerMsg})
	}

	current := msg.Archived
	if field == "starred" {
		current = msg.Starred
	}

	var updated models.Message
	err = database.DB.Collection("messages").FindOneAndUpdate(
		ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{field: !current}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": failMsg})
	}

	responseMsg := offMsg
	if !current {
		responseMsg = onMsg
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": responseMsg,
		"data":    updated,
	})
}

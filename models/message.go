package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MessageCategory string

const (
	CategoryChat     MessageCategory = "chat"
	CategoryOrders   MessageCategory = "orders"
	CategoryActivity MessageCategory = "activity"
	CategoryPromo    MessageCategory = "promo"
)

func (c MessageCategory) Valid() bool {
	switch c {
	case CategoryChat, CategoryOrders, CategoryActivity, CategoryPromo:
		return true
	}
	return false
}

type MessageStatus string

const (
	MessagePending MessageStatus = "pending"
	MessageReplied MessageStatus = "replied"
	MessageClosed  MessageStatus = "closed"
)

func (s MessageStatus) Valid() bool {
	switch s {
	case MessagePending, MessageReplied, MessageClosed:
		return true
	}
	return false
}

type MessageReply struct {
	SenderEmail string    `bson:"senderEmail" json:"senderEmail"`
	SenderName  string    `bson:"senderName" json:"senderName"`
	SenderRole  Role      `bson:"senderRole" json:"senderRole"`
	Message     string    `bson:"message" json:"message"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

// Message is a support-thread document. User-initiated messages have no
// recipient; admin-initiated ones carry the target user's email and name.
type Message struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SenderEmail    string             `bson:"senderEmail" json:"senderEmail"`
	SenderName     string             `bson:"senderName" json:"senderName"`
	SenderRole     Role               `bson:"senderRole" json:"senderRole"`
	RecipientEmail string             `bson:"recipientEmail,omitempty" json:"recipientEmail,omitempty"`
	RecipientName  string             `bson:"recipientName,omitempty" json:"recipientName,omitempty"`
	Category       MessageCategory    `bson:"category" json:"category"`
	Subject        string             `bson:"subject" json:"subject"`
	Message        string             `bson:"message" json:"message"`
	Status         MessageStatus      `bson:"status" json:"status"`
	Replies        []MessageReply     `bson:"replies" json:"replies"`
	AdminRead      bool               `bson:"adminRead" json:"adminRead"`
	UserRead       bool               `bson:"userRead" json:"userRead"`
	Archived       bool               `bson:"archived" json:"archived"`
	Starred        bool               `bson:"starred" json:"starred"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OwnedBy reports whether the given email started this thread. Recipients of
// admin-sent messages are not owners; read-marking handles them separately.
func (m *Message) OwnedBy(email string) bool {
	return m.SenderEmail == email
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OTP is a one-time password-reset code bound to an email address. Sending a
// new code deletes the old ones, and a successful reset consumes the code.
type OTP struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Code      string             `bson:"otp" json:"otp"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

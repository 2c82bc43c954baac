package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// IsCustomer reports whether the role is a regular shopper. Admins are not
// customers: customer-only actions (placing orders, requesting returns) are
// rejected for admin identities just like the reverse.
func (r Role) IsCustomer() bool {
	return r == RoleUser
}

type MembershipTier string

const (
	TierBronze  MembershipTier = "Bronze"
	TierSilver  MembershipTier = "Silver"
	TierGold    MembershipTier = "Gold"
	TierDiamond MembershipTier = "Diamond"
)

// TierForPoints maps an accumulated point balance to a membership tier.
// Thresholds: 1000 Diamond, 500 Gold, 200 Silver, below that Bronze.
func TierForPoints(points int64) MembershipTier {
	switch {
	case points >= 1000:
		return TierDiamond
	case points >= 500:
		return TierGold
	case points >= 200:
		return TierSilver
	default:
		return TierBronze
	}
}

// DiscountRate returns the percentage discount for a tier.
func (t MembershipTier) DiscountRate() int {
	switch t {
	case TierSilver:
		return 5
	case TierGold:
		return 10
	case TierDiamond:
		return 15
	default:
		return 0
	}
}

// NextTier returns the tier above t, or "" for Diamond.
func (t MembershipTier) NextTier() MembershipTier {
	switch t {
	case TierBronze:
		return TierSilver
	case TierSilver:
		return TierGold
	case TierGold:
		return TierDiamond
	default:
		return ""
	}
}

// PointsToNextTier returns how many more points are needed to reach the next
// tier from the given balance, or 0 at Diamond.
func PointsToNextTier(points int64) int64 {
	switch TierForPoints(points) {
	case TierBronze:
		return 200 - points
	case TierSilver:
		return 500 - points
	case TierGold:
		return 1000 - points
	default:
		return 0
	}
}

type WishlistItem struct {
	ProductID string    `bson:"productId" json:"productId"`
	AddedAt   time.Time `bson:"addedAt" json:"addedAt"`
}

type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email           string             `bson:"email" json:"email"`
	FirstName       string             `bson:"firstName" json:"firstName"`
	LastName        string             `bson:"lastName" json:"lastName"`
	Password        string             `bson:"password,omitempty" json:"-"`
	Role            Role               `bson:"role" json:"role"`
	IsBlock         bool               `bson:"isBlock" json:"isBlock"`
	IsEmailVerified bool               `bson:"isEmailVerified" json:"isEmailVerified"`
	Image           string             `bson:"image" json:"image"`
	Phone           string             `bson:"phone" json:"phone"`
	Address         string             `bson:"address" json:"address"`
	Points          int64              `bson:"points" json:"points"`
	MembershipTier  MembershipTier     `bson:"membershipTier" json:"membershipTier"`
	Wishlist        []WishlistItem     `bson:"wishlist" json:"wishlist"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// AuthUser is the authenticated identity attached to a request by the auth
// middleware. It carries the JWT claim set, not the full user document.
type AuthUser struct {
	Email           string `json:"email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Role            Role   `json:"role"`
	IsEmailVerified bool   `json:"isEmailVerified"`
	Image           string `json:"image"`
}

func (u *AuthUser) FullName() string {
	return u.FirstName + " " + u.LastName
}

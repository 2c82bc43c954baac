package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusDelivered OrderStatus = "delivered"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPending, PaymentStatusPaid:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cash-on-delivery"
	PaymentBankTransfer   PaymentMethod = "bank-transfer"
	PaymentCard           PaymentMethod = "card"
	PaymentMobile         PaymentMethod = "mobile-payment"
)

// InitialPaymentStatus seeds an order's payment sub-state from its payment
// method: cash-on-delivery starts unpaid, everything else awaits verification.
func (m PaymentMethod) InitialPaymentStatus() PaymentStatus {
	if m == PaymentCashOnDelivery {
		return PaymentStatusUnpaid
	}
	return PaymentStatusPending
}

type ShippingStatus string

const (
	ShippingToShip    ShippingStatus = "to-ship"
	ShippingShipped   ShippingStatus = "shipped"
	ShippingToReceive ShippingStatus = "to-receive"
	ShippingReceived  ShippingStatus = "received"
)

type CancellationStatus string

const (
	CancellationNone      CancellationStatus = "none"
	CancellationRequested CancellationStatus = "requested"
	CancellationApproved  CancellationStatus = "approved"
	CancellationRejected  CancellationStatus = "rejected"
)

type ReturnStatus string

const (
	ReturnNone      ReturnStatus = "none"
	ReturnRequested ReturnStatus = "requested"
	ReturnApproved  ReturnStatus = "approved"
	ReturnRejected  ReturnStatus = "rejected"
	ReturnCompleted ReturnStatus = "completed"
)

type ReviewStatus string

const (
	ReviewNotReviewed ReviewStatus = "not-reviewed"
	ReviewReviewed    ReviewStatus = "reviewed"
)

// OrderItem is a snapshot of catalog data at purchase time. Catalog edits
// after purchase must not alter historical orders, so name/price/image are
// copied rather than referenced.
type OrderItem struct {
	ProductID string `bson:"productID" json:"productID"`
	Quantity  int64  `bson:"quantity" json:"quantity"`
	Name      string `bson:"name" json:"name"`
	Price     int64  `bson:"price" json:"price"` // minor currency units
	Image     string `bson:"image" json:"image"`
}

type PaymentDetails struct {
	TransactionID   string     `bson:"transactionId" json:"transactionId"`
	PaidAmount      int64      `bson:"paidAmount" json:"paidAmount"`
	PaymentDate     *time.Time `bson:"paymentDate" json:"paymentDate"`
	PaymentProof    string     `bson:"paymentProof" json:"paymentProof"`
	BankName        string     `bson:"bankName" json:"bankName"`
	AccountNumber   string     `bson:"accountNumber" json:"accountNumber"`
	RejectionReason string     `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
}

type TrackingUpdate struct {
	Status      string    `bson:"status" json:"status"`
	Location    string    `bson:"location" json:"location"`
	Description string    `bson:"description" json:"description"`
	Timestamp   time.Time `bson:"timestamp" json:"timestamp"`
}

type TrackingInfo struct {
	TrackingNumber    string           `bson:"trackingNumber" json:"trackingNumber"`
	CourierService    string           `bson:"courierService" json:"courierService"`
	EstimatedDelivery *time.Time       `bson:"estimatedDelivery" json:"estimatedDelivery"`
	TrackingURL       string           `bson:"trackingUrl" json:"trackingUrl"`
	TrackingUpdates   []TrackingUpdate `bson:"trackingUpdates" json:"trackingUpdates"`
}

type FeedbackEntry struct {
	Message string    `bson:"message" json:"message"`
	Date    time.Time `bson:"date" json:"date"`
	IsAdmin bool      `bson:"isAdmin" json:"isAdmin"`
}

type Order struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID            string             `bson:"orderID" json:"orderID"`
	Items              []OrderItem        `bson:"items" json:"items"`
	CustomerName       string             `bson:"customerName" json:"customerName"`
	Email              string             `bson:"email" json:"email"`
	Phone              string             `bson:"phone" json:"phone"`
	Address            string             `bson:"address" json:"address"`
	Total              int64              `bson:"total" json:"total"` // minor currency units
	Status             OrderStatus        `bson:"status" json:"status"`
	PaymentStatus      PaymentStatus      `bson:"paymentStatus" json:"paymentStatus"`
	PaymentMethod      PaymentMethod      `bson:"paymentMethod" json:"paymentMethod"`
	PaymentDetails     PaymentDetails     `bson:"paymentDetails" json:"paymentDetails"`
	ShippingStatus     ShippingStatus     `bson:"shippingStatus" json:"shippingStatus"`
	TrackingInfo       TrackingInfo       `bson:"trackingInfo" json:"trackingInfo"`
	ReviewStatus       ReviewStatus       `bson:"reviewStatus" json:"reviewStatus"`
	ReturnStatus       ReturnStatus       `bson:"returnStatus" json:"returnStatus"`
	CancellationStatus CancellationStatus `bson:"cancellationStatus" json:"cancellationStatus"`
	CancellationReason string             `bson:"cancellationReason" json:"cancellationReason"`
	ReturnReason       string             `bson:"returnReason" json:"returnReason"`
	CustomerFeedback   []FeedbackEntry    `bson:"customerFeedback" json:"customerFeedback"`
	Date               time.Time          `bson:"date" json:"date"`
	NotificationSeen   bool               `bson:"notificationSeen" json:"notificationSeen"`
}

// CanRequestCancellation: delivered orders cannot be cancelled.
func (o *Order) CanRequestCancellation() bool {
	return o.Status != OrderStatusDelivered
}

// CanRequestReturn: only delivered orders are return-eligible.
func (o *Order) CanRequestReturn() bool {
	return o.Status == OrderStatusDelivered
}

// PaymentDecidable reports whether the guarded approve/reject payment
// transitions may run. Both require a pending payment.
func (o *Order) PaymentDecidable() bool {
	return o.PaymentStatus == PaymentStatusPending
}

// PointsForTotal computes loyalty points earned by an order: one point per
// 100 currency units spent, truncated.
func PointsForTotal(total int64) int64 {
	return total / 100
}

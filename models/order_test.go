package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitialPaymentStatus(t *testing.T) {
	assert.Equal(t, PaymentStatusUnpaid, PaymentCashOnDelivery.InitialPaymentStatus())
	assert.Equal(t, PaymentStatusPending, PaymentBankTransfer.InitialPaymentStatus())
	assert.Equal(t, PaymentStatusPending, PaymentCard.InitialPaymentStatus())
	assert.Equal(t, PaymentStatusPending, PaymentMobile.InitialPaymentStatus())
}

func TestPointsForTotal(t *testing.T) {
	tests := []struct {
		total int64
		want  int64
	}{
		{0, 0},
		{99, 0},
		{100, 1},
		{300, 3},
		{2499, 24},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PointsForTotal(tt.total), "total=%d", tt.total)
	}
}

func TestCancellationAndReturnEligibility(t *testing.T) {
	pending := Order{Status: OrderStatusPending}
	assert.True(t, pending.CanRequestCancellation())
	assert.False(t, pending.CanRequestReturn())

	delivered := Order{Status: OrderStatusDelivered}
	assert.False(t, delivered.CanRequestCancellation())
	assert.True(t, delivered.CanRequestReturn())
}

func TestPaymentDecidable(t *testing.T) {
	pending := Order{PaymentStatus: PaymentStatusPending}
	unpaid := Order{PaymentStatus: PaymentStatusUnpaid}
	paid := Order{PaymentStatus: PaymentStatusPaid}
	assert.True(t, pending.PaymentDecidable())
	assert.False(t, unpaid.PaymentDecidable())
	assert.False(t, paid.PaymentDecidable())
}

func TestPaymentStatusValid(t *testing.T) {
	assert.True(t, PaymentStatusUnpaid.Valid())
	assert.True(t, PaymentStatusPending.Valid())
	assert.True(t, PaymentStatusPaid.Valid())
	assert.False(t, PaymentStatus("refunded").Valid())
}

// Order totals are computed from the snapshotted item prices, so catalog
// changes after purchase cannot move them.
func TestSnapshotTotal(t *testing.T) {
	items := []OrderItem{
		{ProductID: "GL001", Quantity: 2, Price: 150},
		{ProductID: "GL002", Quantity: 1, Price: 2199},
	}
	var total int64
	for _, item := range items {
		total += item.Price * item.Quantity
	}
	assert.Equal(t, int64(2499), total)
	assert.Equal(t, int64(24), PointsForTotal(total))
}

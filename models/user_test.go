package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierForPoints(t *testing.T) {
	tests := []struct {
		points int64
		want   MembershipTier
	}{
		{0, TierBronze},
		{199, TierBronze},
		{200, TierSilver},
		{499, TierSilver},
		{500, TierGold},
		{999, TierGold},
		{1000, TierDiamond},
		{5000, TierDiamond},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TierForPoints(tt.points), "points=%d", tt.points)
	}
}

func TestDiscountRate(t *testing.T) {
	assert.Equal(t, 0, TierBronze.DiscountRate())
	assert.Equal(t, 5, TierSilver.DiscountRate())
	assert.Equal(t, 10, TierGold.DiscountRate())
	assert.Equal(t, 15, TierDiamond.DiscountRate())
}

func TestNextTier(t *testing.T) {
	assert.Equal(t, TierSilver, TierBronze.NextTier())
	assert.Equal(t, TierGold, TierSilver.NextTier())
	assert.Equal(t, TierDiamond, TierGold.NextTier())
	assert.Equal(t, MembershipTier(""), TierDiamond.NextTier())
}

func TestPointsToNextTier(t *testing.T) {
	assert.Equal(t, int64(200), PointsToNextTier(0))
	assert.Equal(t, int64(1), PointsToNextTier(199))
	assert.Equal(t, int64(300), PointsToNextTier(200))
	assert.Equal(t, int64(500), PointsToNextTier(500))
	assert.Equal(t, int64(0), PointsToNextTier(1000))
}

func TestRoleChecks(t *testing.T) {
	assert.True(t, RoleAdmin.IsAdmin())
	assert.False(t, RoleAdmin.IsCustomer())
	assert.True(t, RoleUser.IsCustomer())
	assert.False(t, RoleUser.IsAdmin())
	assert.False(t, Role("moderator").IsAdmin())
	assert.False(t, Role("moderator").IsCustomer())
}

func TestFullName(t *testing.T) {
	u := User{FirstName: "Amara", LastName: "Perera"}
	assert.Equal(t, "Amara Perera", u.FullName())
}

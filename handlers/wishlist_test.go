package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/glimora/glimora-backend-go/models"
)

func wishlistOf(ids ...string) []models.WishlistItem {
	items := make([]models.WishlistItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, models.WishlistItem{ProductID: id})
	}
	return items
}

func TestWishlistCounts(t *testing.T) {
	users := []models.User{
		{Email: "a@example.com", Wishlist: wishlistOf("GL001", "GL002")},
		{Email: "b@example.com", Wishlist: wishlistOf("GL002")},
		{Email: "c@example.com"},
		{Email: "d@example.com", Wishlist: wishlistOf("GL002", "GL003")},
	}

	counts := wishlistCounts(users)
	assert.Equal(t, map[string]int{"GL001": 1, "GL002": 3, "GL003": 1}, counts)
}

func TestTopWishlisted(t *testing.T) {
	counts := map[string]int{"GL001": 1, "GL002": 3, "GL003": 2, "GL004": 1}

	top := topWishlisted(counts, 3)
	assert.Len(t, top, 3)
	assert.Equal(t, productWishCount{ProductID: "GL002", Count: 3}, top[0])
	assert.Equal(t, productWishCount{ProductID: "GL003", Count: 2}, top[1])
	// ties break by product ID
	assert.Equal(t, productWishCount{ProductID: "GL001", Count: 1}, top[2])
}

func TestTopWishlistedFewerThanN(t *testing.T) {
	top := topWishlisted(map[string]int{"GL001": 1}, 10)
	assert.Len(t, top, 1)

	assert.Empty(t, topWishlisted(map[string]int{}, 10))
}

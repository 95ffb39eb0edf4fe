package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "flat-white", Slugify("  Flat White "))
	assert.Equal(t, "cafe-au-lait", Slugify("Cafe -- au Lait!"))
}

func TestGenerateOrderNo_SortsByTime(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	first := GenerateOrderNo(base)
	second := GenerateOrderNo(base.Add(time.Second))

	assert.True(t, strings.HasPrefix(first, "ORD-"))
	assert.Less(t, first, second)
	assert.NotEqual(t, first, GenerateOrderNo(base))
}

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	staffID, storeID := uuid.New(), uuid.New()

	token, err := m.GenerateAccessToken(staffID, storeID, "Ana", "cashier", []string{"sell"})
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, staffID, claims.StaffID)
	assert.Equal(t, storeID, claims.StoreID)
	assert.Equal(t, []string{"sell"}, claims.Permissions)

	other := NewJWTManager("other", time.Hour)
	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("1234")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("1234", hash))
	assert.False(t, CheckPasswordHash("4321", hash))
	assert.False(t, CheckPasswordHash("1234", ""))
}

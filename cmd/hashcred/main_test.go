package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/family-travel-blog/internal/utils"
)

func TestDefaultCost(t *testing.T) {
	t.Setenv("BCRYPT_COST", "")
	assert.Equal(t, bcrypt.DefaultCost, defaultCost())

	t.Setenv("BCRYPT_COST", "6")
	assert.Equal(t, 6, defaultCost())

	t.Setenv("BCRYPT_COST", "not-a-number")
	assert.Equal(t, bcrypt.DefaultCost, defaultCost())
}

// The produced hash must verify with the server's own check.
func TestHashRoundTrip(t *testing.T) {
	hash, err := utils.HashPassword("sonne123", bcrypt.MinCost)
	assert.NoError(t, err)
	assert.True(t, utils.VerifyPassword(hash, "sonne123"))
	assert.False(t, utils.VerifyPassword(hash, "sonne124"))
}

package logics_test

import (
	"testing"
	"time"

	"schoolhub-server/internal/logics"

	"github.com/stretchr/testify/assert"
)

func TestTokenService(t *testing.T) {
	service := logics.NewTokenService("test-secret", time.Hour)

	t.Run("issued token round-trips the user id", func(t *testing.T) {
		token, err := service.GenerateAccessToken("usr123456789")
		assert.NoError(t, err)

		userID, err := service.ParseAccessToken(token)
		assert.NoError(t, err)
		assert.Equal(t, "usr123456789", userID)
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		other := logics.NewTokenService("other-secret", time.Hour)
		token, err := other.GenerateAccessToken("usr123456789")
		assert.NoError(t, err)

		_, err = service.ParseAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		_, err := service.ParseAccessToken("not-a-token")
		assert.Error(t, err)
	})
}

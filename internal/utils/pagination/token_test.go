package pagination_test

import (
	"testing"
	"time"

	"github.com/Caqil/iprofit-admin-sub008/internal/utils/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	createdAt := time.Date(2025, time.August, 4, 10, 30, 0, 123456789, time.UTC)
	id := "65f1c0ffee00deadbeef1234"

	token := pagination.EncodeToken(createdAt, id)
	gotTime, gotID, err := pagination.DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, gotTime.Equal(createdAt))
	assert.Equal(t, id, gotID)
}

func TestDecodeToken_Invalid(t *testing.T) {
	cases := []struct {
		name  string
		token string
	}{
		{"not base64", "!!!not-base64!!!"},
		{"missing separator", "aGVsbG8="}, // "hello"
		{"bad time", "bm90LWEtdGltZXxpZA=="},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := pagination.DecodeToken(tc.token)
			assert.Error(t, err)
		})
	}
}

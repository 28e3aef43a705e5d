package objectid_test

import (
	"testing"

	"github.com/Caqil/iprofit-admin-sub008/internal/utils/objectid"
	"github.com/stretchr/testify/assert"
)

func TestNewProducesValidIDs(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := objectid.New()
		assert.True(t, objectid.IsValid(id), "generated id %q must validate", id)
		_, dup := seen[id]
		assert.False(t, dup, "generated id %q repeated", id)
		seen[id] = struct{}{}
	}
}

func TestIsValid(t *testing.T) {
	cases := []struct {
		id    string
		valid bool
	}{
		{"65f1c0ffee00deadbeef1234", true},
		{"65F1C0FFEE00DEADBEEF1234", false}, // uppercase not accepted
		{"65f1c0ffee00deadbeef123", false},  // too short
		{"65f1c0ffee00deadbeef12345", false},
		{"zzf1c0ffee00deadbeef1234", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.valid, objectid.IsValid(tc.id), "id %q", tc.id)
	}
}

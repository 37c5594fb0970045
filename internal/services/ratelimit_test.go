package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidlens/abcd/internal/config"
)

func testRateLimitService() *RateLimitService {
	cfg := &config.Config{}
	cfg.Auth.RateLimit.Default = 60
	cfg.Auth.RateLimit.Premium = 600
	cfg.Auth.RateLimit.Window = time.Minute
	return NewRateLimitService(cfg, quietLogger(), nil)
}

func TestRateLimitService_PermissiveWithoutRedis(t *testing.T) {
	svc := testRateLimitService()

	allowed, info, err := svc.IsAllowed("user-1", "free")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 60, info.Limit)
	assert.Equal(t, 59, info.Remaining)
}

func TestRateLimitService_TierLimits(t *testing.T) {
	svc := testRateLimitService()

	tests := []struct {
		tier  string
		limit int
	}{
		{"free", 60},
		{"premium", 600},
		{"enterprise", 6000},
		{"unknown", 60},
	}
	for _, tt := range tests {
		t.Run(tt.tier, func(t *testing.T) {
			info, err := svc.CheckLimit("user-1", tt.tier)
			require.NoError(t, err)
			assert.Equal(t, tt.limit, info.Limit)
		})
	}
}

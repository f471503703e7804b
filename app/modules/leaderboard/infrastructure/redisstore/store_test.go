package redisstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLSeconds(t *testing.T) {
	tests := []struct {
		ttl  time.Duration
		want int64
	}{
		{ttl: 5 * time.Minute, want: 300},
		{ttl: 1500 * time.Millisecond, want: 2},
		{ttl: time.Millisecond, want: 1},
		{ttl: 0, want: 1},
		{ttl: -time.Second, want: 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ttlSeconds(tt.ttl), "ttl=%s", tt.ttl)
	}
}

package util

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomUpperAlnum(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z0-9]{8}$`)
	for i := 0; i < 100; i++ {
		s := RandomUpperAlnum(8)
		require.True(t, pattern.MatchString(s), "unexpected format: %s", s)
	}
}

func TestRandomUpperAlnum_Length(t *testing.T) {
	require.Len(t, RandomUpperAlnum(0), 0)
	require.Len(t, RandomUpperAlnum(20), 20)
}

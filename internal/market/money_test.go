package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCash_Round2(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Cash(10.13), Cash(10.125).Round2())
	assert.Equal(t, Cash(-10.13), Cash(-10.126).Round2())
	assert.Equal(t, Cash(10), Cash(10).Round2())
}

func TestCash_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "10.12", Cash(10.1234).String())
	assert.Equal(t, "0.00", Cash(0).String())
}

func TestPct4(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 66.6667, Pct4(200.0/3.0))
	assert.Equal(t, 0.0, Pct4(0))
}

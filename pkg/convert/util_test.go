package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToPtr(t *testing.T) {
	ptr := ToPtr("value")
	require.NotNil(t, ptr)
	assert.Equal(t, "value", *ptr)
}

func TestToValueWithDefault(t *testing.T) {
	assert.Equal(t, "fallback", ToValueWithDefault(nil, "fallback"))
	assert.Equal(t, "fallback", ToValueWithDefault(ToPtr(""), "fallback"))
	assert.Equal(t, "value", ToValueWithDefault(ToPtr("value"), "fallback"))
	assert.Equal(t, 7, ToValueWithDefault(ToPtr(7), 3))
	assert.Equal(t, 3, ToValueWithDefault[int](nil, 3))
}

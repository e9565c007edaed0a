package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullableIDMapsEmptyToNull(t *testing.T) {
	assert.Nil(t, nullableID(""))

	id := nullableID("6f1d0aa2-9c1e-4a6e-8a6e-0f4f4b7a9d11")
	require.NotNil(t, id)
	assert.Equal(t, "6f1d0aa2-9c1e-4a6e-8a6e-0f4f4b7a9d11", *id)
}

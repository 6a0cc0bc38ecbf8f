package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeSearchIsUnsafe(t *testing.T) {
	safe := &SafeSearchResult{Adult: "VERY_UNLIKELY", Violence: "UNLIKELY", Racy: "POSSIBLE"}
	assert.False(t, safe.IsUnsafe(), "POSSIBLE and below pass")

	assert.True(t, (&SafeSearchResult{Adult: "LIKELY"}).IsUnsafe())
	assert.True(t, (&SafeSearchResult{Violence: "VERY_LIKELY"}).IsUnsafe())
	assert.True(t, (&SafeSearchResult{Racy: "LIKELY"}).IsUnsafe())

	assert.False(t, (&SafeSearchResult{}).IsUnsafe(), "empty annotation is treated as safe")
}

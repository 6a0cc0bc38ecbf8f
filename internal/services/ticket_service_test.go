package services

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateTicketReferenceFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^TD-\d{8}-\d{6}-[0-9A-F]{8}$`)

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		ref := GenerateTicketReference()
		assert.Regexp(t, pattern, ref)
		seen[ref] = struct{}{}
	}
	assert.Len(t, seen, 100, "references must not collide")
}

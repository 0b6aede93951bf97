package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "Laptop", SanitizeText("  <b>Laptop</b> "))
	assert.Equal(t, "", SanitizeText("<script>alert(1)</script>"))
	assert.Equal(t, "Tom & Jerry", SanitizeText("Tom & Jerry"))
	assert.Nil(t, SanitizeOptional(nil))

	note := "<i>please</i> asap"
	assert.Equal(t, "please asap", *SanitizeOptional(&note))
}

package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateWithFallback(t *testing.T) {
	require.NoError(t, Initialize())

	assert.Equal(t, "Asset not found", T("en", KeyAssetNotFound))
	assert.Equal(t, "找不到資產", T("zh_TW", KeyAssetNotFound))
	assert.Equal(t, "Asset not found", T("fr", KeyAssetNotFound))
	assert.Equal(t, "This action requires the Hr role", T("en", KeyAuthRoleRequired, "Hr"))
	assert.Equal(t, "missing.key", T("en", "missing.key"))
	assert.True(t, IsSupported("zh_TW"))
}

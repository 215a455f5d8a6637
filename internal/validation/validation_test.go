package validation

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateFilePath(t *testing.T) {
	require.ErrorIs(t, ValidateFilePath("", false), ErrInvalidPath)

	dir := t.TempDir()
	require.NoError(t, ValidateFilePath(dir, true))

	missing := filepath.Join(dir, "nope")
	require.ErrorIs(t, ValidateFilePath(missing, true), ErrPathNotExists)
	require.NoError(t, ValidateFilePath(missing, false))
}

func TestValidateStringNonEmpty(t *testing.T) {
	require.ErrorIs(t, ValidateStringNonEmpty(""), ErrEmptyString)
	require.NoError(t, ValidateStringNonEmpty("x"))
}

func TestValidateRangeInt(t *testing.T) {
	require.NoError(t, ValidateRangeInt(5, 0, 10))
	require.ErrorIs(t, ValidateRangeInt(-1, 0, 10), ErrOutOfRange)
	require.ErrorIs(t, ValidateRangeInt(11, 0, 10), ErrOutOfRange)
}

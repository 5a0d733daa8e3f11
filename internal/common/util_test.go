package common

import (
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeRandHexString_LengthAndHex(t *testing.T) {
	s, err := MakeRandHexString(16)
	require.NoError(t, err)
	require.Len(t, s, 32)

	_, err = hex.DecodeString(s)
	require.NoError(t, err)
}

func TestMakeRandHexString_ZeroSize(t *testing.T) {
	s, err := MakeRandHexString(0)
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestMakeRandHexString_Distinct(t *testing.T) {
	a, err := MakeRandHexString(32)
	require.NoError(t, err)
	b, err := MakeRandHexString(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestWipeByteArray_ZerosBuffer(t *testing.T) {
	buf := []byte("1234")
	WipeByteArray(buf)
	assert.Equal(t, []byte{0, 0, 0, 0}, buf)
}

func TestWipeByteArray_NilSafe(t *testing.T) {
	WipeByteArray(nil)
}

func TestErrors_AreDistinguishable(t *testing.T) {
	kinds := []error{ErrorNotFound, ErrorConflict, ErrStorageFault, ErrorUnauthorized, ErrVersionConflict}
	for i, a := range kinds {
		wrapped := fmt.Errorf("op failed: %w", a)
		for j, b := range kinds {
			assert.Equal(t, i == j, errors.Is(wrapped, b), "%v vs %v", a, b)
		}
	}
}

package segalloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRejectsTooFewLists(t *testing.T) {
	o := defaultOptions()
	o.ListCount = 1
	require.ErrorIs(t, o.validate(), ErrInvalidArgument)
}

func TestValidateRejectsOutOfRangeThreshold(t *testing.T) {
	o := defaultOptions()
	o.FitThreshold = o.ListCount
	require.ErrorIs(t, o.validate(), ErrInvalidArgument)

	o2 := defaultOptions()
	o2.FitThreshold = -1
	require.ErrorIs(t, o2.validate(), ErrInvalidArgument)
}

func TestValidateRejectsUndersizedChunk(t *testing.T) {
	o := defaultOptions()
	o.ChunkSize = minBlock - 1
	require.ErrorIs(t, o.validate(), ErrInvalidArgument)
}

func TestValidateRejectsNegativeInitialChunks(t *testing.T) {
	o := defaultOptions()
	o.InitialChunks = -1
	require.ErrorIs(t, o.validate(), ErrInvalidArgument)
}

func TestValidateAcceptsDefaults(t *testing.T) {
	require.NoError(t, defaultOptions().validate())
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	_, err := New(WithListCount(1))
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewDefaultsToSliceLayer(t *testing.T) {
	h, err := New(WithMaxHeapBytes(1 << 16))
	require.NoError(t, err)
	_, ok := h.layer.(*sliceLayer)
	require.True(t, ok)
}

func TestWithMemoryLayerOverridesDefault(t *testing.T) {
	l, err := newSliceLayer(1 << 16)
	require.NoError(t, err)
	h, err := New(WithMemoryLayer(l))
	require.NoError(t, err)
	require.Same(t, l, h.layer)
}

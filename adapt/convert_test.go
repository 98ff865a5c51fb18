package adapt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unwrapOnly struct{ raw *rawWidget }

func (u *unwrapOnly) Unwrap() *rawWidget { return u.raw }

type twoUnwraps struct{ raw *rawWidget }

func (*twoUnwraps) Wrap(raw *rawWidget) *twoUnwraps { return &twoUnwraps{raw: raw} }
func (t *twoUnwraps) Unwrap() *rawWidget { return t.raw }
func (t *twoUnwraps) Raw() *rawWidget { return t.raw }

func TestConverterFor_RoundTrip(t *testing.T) {
	conv := ConverterFor[*rawWidget, *widgetAdapter](NewCache())

	t.Run("standard unwrap of wrap is identity", func(t *testing.T) {
		x := &rawWidget{id: 1}
		assert.Same(t, x, conv.Unwrap(conv.Wrap(x)))
	})

	t.Run("casted wrap of unwrap is structurally equal", func(t *testing.T) {
		y := wrapped(2)
		got := conv.Wrap(conv.Unwrap(y))
		assert.Equal(t, y, got)
		assert.NotSame(t, y, got)
	})

	t.Run("nil raw wraps to nil", func(t *testing.T) {
		assert.Nil(t, conv.Wrap(nil))
	})
}

func TestConverterFor_ResolvesOncePerPair(t *testing.T) {
	cache := NewCache()
	_ = ConverterFor[*rawWidget, *widgetAdapter](cache)
	_ = ConverterFor[*rawWidget, *widgetAdapter](cache)
	assert.Equal(t, 1, cache.Len())

	assert.NotPanics(t, func() { _ = ConverterFor[*rawWidget, *widgetAdapter](nil) })
}

func TestConverterFor_FailsOnFirstUse(t *testing.T) {
	tests := []struct {
		name    string
		resolve func()
		reason  string
	}{
		{
			name:    "missing wrap",
			resolve: func() { _ = ConverterFor[*rawWidget, *unwrapOnly](NewCache()) },
			reason:  "found 0",
		},
		{
			name:    "ambiguous unwrap",
			resolve: func() { _ = ConverterFor[*rawWidget, *twoUnwraps](NewCache()) },
			reason:  "found 2",
		},
		{
			name:    "interface wrapped type",
			resolve: func() { _ = ConverterFor[*rawWidget, Widget](NewCache()) },
			reason:  "must be concrete",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := recoverError(tt.resolve)
			var convErr *ConversionError
			require.ErrorAs(t, err, &convErr)
			assert.Contains(t, convErr.Reason, tt.reason)
		})
	}
}

func TestWrapUnwrap(t *testing.T) {
	x := &rawWidget{id: 3}

	w := Wrap[*rawWidget, *widgetAdapter, Widget](x)
	require.NotNil(t, w)
	assert.Equal(t, 3, w.ID())
	assert.Same(t, x, Unwrap[*rawWidget, *widgetAdapter](w))

	assert.Nil(t, Wrap[*rawWidget, *widgetAdapter, Widget](nil))
	assert.Nil(t, Unwrap[*rawWidget, *widgetAdapter](nil))

	err := recoverError(func() { Unwrap[*rawWidget, *widgetAdapter](impostor{}) })
	assert.ErrorIs(t, err, ErrIncompatibleElement)
}

package adapt

import (
	"iter"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widgetSeq struct {
	items []*rawWidget
}

func (s widgetSeq) All() iter.Seq[*rawWidget] { return slices.Values(s.items) }

func TestCreate_NilInNilOut(t *testing.T) {
	for _, source := range []any{nil, []*rawWidget(nil), (*SliceList[*rawWidget])(nil)} {
		got, err := Create[*rawWidget, *widgetAdapter, Widget](source)
		require.NoError(t, err)
		assert.Nil(t, got)
	}
}

func TestCreate_ReturnsExactAdapterUnchanged(t *testing.T) {
	raw := NewSliceList(&rawWidget{id: 1})
	adapters := []Sequence[Widget]{
		NewArray[*rawWidget, *widgetAdapter, Widget]([]*rawWidget{{id: 1}}),
		NewList[*rawWidget, *widgetAdapter, Widget](raw),
		NewSet[*rawWidget, *widgetAdapter, Widget](NewHashSet(&rawWidget{id: 1})),
		NewCollection[*rawWidget, *widgetAdapter, Widget](raw),
		NewReadOnlyList[*rawWidget, *widgetAdapter, Widget](raw),
		NewReadOnlyCollection[*rawWidget, *widgetAdapter, Widget](raw),
		NewSequence[*rawWidget, *widgetAdapter, Widget](raw),
	}

	for _, adapter := range adapters {
		got, err := Create[*rawWidget, *widgetAdapter, Widget](adapter)
		require.NoError(t, err)
		assert.Same(t, adapter, got)
	}
}

func TestCreate_Narrowing(t *testing.T) {
	tests := []struct {
		name     string
		source   any
		want     any
		strategy Strategy
	}{
		{
			name:     "array and list shaped picks array",
			source:   widgetSlice{{id: 1}},
			want:     &ArrayAdapter[*rawWidget, *widgetAdapter, Widget]{},
			strategy: Standard,
		},
		{
			name:     "pointer to array",
			source:   &[2]*rawWidget{{id: 1}, {id: 2}},
			want:     &ArrayAdapter[*rawWidget, *widgetAdapter, Widget]{},
			strategy: Standard,
		},
		{
			name:     "abstraction slice is casted",
			source:   []Widget{wrapped(1)},
			want:     &ArrayAdapter[*rawWidget, *widgetAdapter, Widget]{},
			strategy: Casted,
		},
		{
			name:     "list and collection shaped picks list",
			source:   NewSliceList(&rawWidget{id: 1}),
			want:     &ListAdapter[*rawWidget, *widgetAdapter, Widget]{},
			strategy: Standard,
		},
		{
			name:     "set",
			source:   NewHashSet[Widget](wrapped(1)),
			want:     &SetAdapter[*rawWidget, *widgetAdapter, Widget]{},
			strategy: Casted,
		},
		{
			name:     "sequence",
			source:   widgetSeq{items: []*rawWidget{{id: 1}}},
			want:     &SequenceAdapter[*rawWidget, *widgetAdapter, Widget]{},
			strategy: Standard,
		},
		{
			name:     "iterator function",
			source:   slices.Values([]*rawWidget{{id: 1}}),
			want:     &SequenceAdapter[*rawWidget, *widgetAdapter, Widget]{},
			strategy: Standard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Create[*rawWidget, *widgetAdapter, Widget](tt.source)
			require.NoError(t, err)
			assert.IsType(t, tt.want, got)
			assert.Equal(t, tt.strategy, got.(interface{ Strategy() Strategy }).Strategy())
			assert.NotEmpty(t, ids(got.All()))
		})
	}
}

func TestCreate_Unsupported(t *testing.T) {
	_, err := Create[*rawWidget, *widgetAdapter, Widget](42)
	assert.ErrorIs(t, err, ErrNotSupported)

	_, err = AsList[*rawWidget, *widgetAdapter, Widget]([]*rawWidget{{id: 1}})
	assert.ErrorIs(t, err, ErrNotSupported)
}

func TestAsShapes(t *testing.T) {
	raw := NewSliceList(&rawWidget{id: 1})

	list, err := AsList[*rawWidget, *widgetAdapter, Widget](raw)
	require.NoError(t, err)
	again, err := AsList[*rawWidget, *widgetAdapter, Widget](list)
	require.NoError(t, err)
	assert.Same(t, list, again)

	coll, err := AsCollection[*rawWidget, *widgetAdapter, Widget](raw)
	require.NoError(t, err)
	assert.Equal(t, 1, coll.Len())

	roList, err := AsReadOnlyList[*rawWidget, *widgetAdapter, Widget](raw)
	require.NoError(t, err)
	assert.Equal(t, 1, roList.At(0).ID())

	roColl, err := AsReadOnlyCollection[*rawWidget, *widgetAdapter, Widget](raw)
	require.NoError(t, err)
	assert.Equal(t, 1, roColl.Len())

	seq, err := AsSequence[*rawWidget, *widgetAdapter, Widget](raw)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, ids(seq.All()))

	set, err := AsSet[*rawWidget, *widgetAdapter, Widget](NewHashSet(&rawWidget{id: 2}))
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())

	array, err := AsArray[*rawWidget, *widgetAdapter, Widget](widgetSlice{{id: 3}})
	require.NoError(t, err)
	assert.Equal(t, 3, array.At(0).ID())

	backing := map[string]*rawWidget{}
	m, err := AsMap[string, *rawWidget, *widgetAdapter, Widget](backing)
	require.NoError(t, err)
	require.NoError(t, m.Set("x", wrapped(4)))
	assert.Equal(t, 4, backing["x"].id)

	nilMap, err := AsMap[string, *rawWidget, *widgetAdapter, Widget](map[string]*rawWidget(nil))
	require.NoError(t, err)
	assert.Nil(t, nilMap)
}

func TestRawSlice(t *testing.T) {
	raw := []*rawWidget{{id: 1}, {id: 2}}
	array := NewArray[*rawWidget, *widgetAdapter, Widget](raw)

	got, err := RawSlice[*rawWidget, *widgetAdapter, Widget](array)
	require.NoError(t, err)
	assert.Same(t, &raw[0], &got[0], "standard arrays give back their own slice")

	list := NewCastedList[*rawWidget, *widgetAdapter, Widget](NewSliceList[Widget](wrapped(5)))
	got, err = RawSlice[*rawWidget, *widgetAdapter, Widget](list)
	require.NoError(t, err)
	assert.Equal(t, 5, got[0].id)

	bad := NewSliceList[Widget](impostor{id: 6})
	_, err = RawSlice[*rawWidget, *widgetAdapter, Widget](bad)
	assert.ErrorIs(t, err, ErrIncompatibleElement)

	assert.Equal(t, []int{1, 2}, rawIDs(RawSeq[*rawWidget, *widgetAdapter, Widget](NewSequence[*rawWidget, *widgetAdapter, Widget](NewSliceList(raw...)))))
}

func TestNestedArrays(t *testing.T) {
	type inner = ArrayAdapter[*rawWidget, *widgetAdapter, Widget]

	raw := [][]*rawWidget{{{id: 1}, {id: 2}}, {{id: 3}}}
	outer := NewArray[[]*rawWidget, *inner, List[Widget]](raw)

	assert.Equal(t, 2, outer.Len())
	assert.Equal(t, 3, outer.At(1).At(0).ID())

	require.NoError(t, outer.Set(1, NewArray[*rawWidget, *widgetAdapter, Widget]([]*rawWidget{{id: 9}})))
	assert.Equal(t, 9, raw[1][0].id)
}

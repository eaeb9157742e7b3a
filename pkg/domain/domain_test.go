package domain

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		raw  string
		want Orientation
	}{
		{"Portrait", OrientationPortrait},
		{"portrait_upside_down", OrientationPortrait},
		{"PortraitUpsideDown", OrientationPortrait},
		{"landscape-left", OrientationLandscape},
		{"LandscapeRight", OrientationLandscape},
		{"face_up", OrientationUnknown},
		{"auto rotation", OrientationUnknown},
		{"", OrientationUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.raw))
		})
	}
}

func TestClassifyDimensions(t *testing.T) {
	assert.Equal(t, OrientationPortrait, ClassifyDimensions(1080, 1920))
	assert.Equal(t, OrientationLandscape, ClassifyDimensions(1920, 1080))
	assert.Equal(t, OrientationUnknown, ClassifyDimensions(800, 800))
	assert.Equal(t, OrientationUnknown, ClassifyDimensions(0, 600))
}

func TestParseOrientation(t *testing.T) {
	o, err := ParseOrientation(" Landscape ")
	require.NoError(t, err)
	assert.Equal(t, OrientationLandscape, o)

	_, err = ParseOrientation("sideways")
	assert.ErrorIs(t, err, ErrInvalidOrientation)

	var decoded struct {
		O Orientation `json:"o"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"o":"portrait"}`), &decoded))
	assert.Equal(t, OrientationPortrait, decoded.O)
	assert.True(t, decoded.O.Valid())
	assert.False(t, OrientationUnknown.Valid())
}

func TestLayouts_SetIgnoresUnknown(t *testing.T) {
	var l Layouts
	l.Set(OrientationUnknown, Snapshot{Pivot: Vec2{X: 0.5, Y: 0.5}})
	assert.False(t, l.Has(OrientationPortrait))
	assert.False(t, l.Has(OrientationLandscape))
	_, ok := l.Get(OrientationUnknown)
	assert.False(t, ok)
}

func TestLayouts_CloneIsolation(t *testing.T) {
	var l Layouts
	l.Set(OrientationPortrait, Snapshot{SizeDelta: Vec2{X: 100, Y: 50}})

	c := l.Clone()
	c[0].SizeDelta.X = 999

	got, _ := l.Get(OrientationPortrait)
	assert.Equal(t, 100.0, got.SizeDelta.X, "clone must not share snapshot memory")
}

func TestEntry_JSON(t *testing.T) {
	e := Entry{ElementID: "header", Name: "Header"}
	e.Layouts.Set(OrientationLandscape, Snapshot{
		LocalScale: Vec3{X: 1, Y: 1, Z: 1},
		AnchorMax:  Vec2{X: 1, Y: 1},
	})

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"portrait"`, "empty slots are omitted")
	assert.Contains(t, string(data), `"landscape"`)

	var back Entry
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, e, back)
}

func TestChainHooks(t *testing.T) {
	var calls []string
	a := LifecycleHooks{OnApply: func(_ context.Context, e *LayoutEvent) { calls = append(calls, "a:"+e.ElementID) }}
	b := LifecycleHooks{OnApply: func(_ context.Context, e *LayoutEvent) { calls = append(calls, "b:"+e.ElementID) }}

	h := ChainHooks(a, LifecycleHooks{}, b)
	h.OnApply(context.Background(), &LayoutEvent{ElementID: "x"})
	h.OnSkip(context.Background(), &LayoutEvent{ElementID: "x"})

	assert.Equal(t, []string{"a:x", "b:x"}, calls)
}

package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStem_Next(t *testing.T) {
	s := NewStem("Widget", map[string]struct{}{"Widget1": {}})
	assert.Equal(t, "Widget2", s.Next())
	assert.Equal(t, "Widget3", s.Next())

	free := NewStem("p", nil)
	assert.Equal(t, "p1", free.Next())
}

func TestUnique(t *testing.T) {
	taken := map[string]struct{}{}

	assert.Equal(t, "widget", Unique(taken, "widget", "_"))
	assert.Equal(t, "widget_1", Unique(taken, "widget", "_"))
	assert.Equal(t, "widget_2", Unique(taken, "widget", "_"))
	assert.Equal(t, "errors", Unique(taken, "errors", ""))
	assert.Equal(t, "errors1", Unique(taken, "errors", ""))
	assert.Len(t, taken, 5)
}

func TestAllocator_Claim(t *testing.T) {
	a := NewAllocator(DefaultConfig())

	assert.Equal(t, "Widget", a.Claim("Widget", "ForeignWidget"))
	assert.Equal(t, "ShapesWidget", a.Claim("Widget", "ShapesWidget"))
	assert.Equal(t, "ShapesWidget1", a.Claim("Widget", "ShapesWidget"))
	assert.Equal(t, "Error", a.Claim("error", "Error"), "predeclared names are never handed out")
	assert.Equal(t, "Type", a.Claim("type", "Type"), "keywords are skipped")
	assert.True(t, a.Taken("Widget"))
	assert.Equal(t, "Adapter", a.Config().AdapterSuffix)
}

func TestAllocator_ClaimCollidingError(t *testing.T) {
	a := NewAllocator(Config{})
	assert.Equal(t, "Error", a.Claim("Error"))
	assert.Equal(t, "Error1", a.Claim("Error"))
	assert.Equal(t, "Generated1", a.Claim())
}

func TestIdent(t *testing.T) {
	tests := map[string]string{
		"map[string]int": "MapStringInt",
		"*time.Time":     "TimeTime",
		"[]byte":         "Byte",
		"[4]int":         "T4Int",
		"":               "T",
	}

	for in, want := range tests {
		assert.Equal(t, want, Ident(in), in)
	}
}

func TestParam(t *testing.T) {
	assert.Equal(t, "name", Param("name", 0))
	assert.Equal(t, "p1", Param("", 1))
	assert.Equal(t, "p12", Param("_", 12))
	assert.Equal(t, "p0", Param("a", 0))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "widget_adapter.go", FileName("WidgetAdapter"))
}

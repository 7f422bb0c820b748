package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThemeByName(t *testing.T) {
	assert.True(t, ThemeByName("dark").IsDark)
	assert.False(t, ThemeByName("light").IsDark)
}

func TestRenderDivider(t *testing.T) {
	s := NewStyles(LightTheme())
	assert.NotEmpty(t, s.RenderDivider(10))
	assert.Empty(t, s.RenderDivider(0))
}

package ui_test

import (
	"testing"

	"github.com/jrsteele09/go-news-portal/internal/ui"
	"github.com/stretchr/testify/require"
)

func TestPainter_Disabled(t *testing.T) {
	p := ui.Painter{}
	require.Equal(t, "GET    ", p.Method("GET"))
	require.Equal(t, "draft", p.Published(false))
	require.Equal(t, "yes", p.Flag(true))
}

func TestPainter_Enabled(t *testing.T) {
	p := ui.Painter{Enabled: true}
	require.Equal(t, ui.Green+"published"+ui.ResetColor, p.Published(true))
	require.Equal(t, ui.Gray+"TRACE  "+ui.ResetColor, p.Method("TRACE"))
	require.Equal(t, "plain", p.Paint("", "plain"))
}

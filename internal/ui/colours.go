package ui

import "fmt"

const (
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	Gray    = "\033[90m" // Bright black, often appears as gray

	ResetColor = "\033[0m" // Reset to default color
)

// MethodColors colours HTTP methods in route listings.
var MethodColors = map[string]string{
	"GET":    Green,
	"POST":   Blue,
	"PUT":    Cyan,
	"DELETE": Yellow,
	"PATCH":  Magenta,
}

// Painter colours text only when its output is a terminal.
type Painter struct {
	Enabled bool
}

// Paint wraps s in color when enabled.
func (p Painter) Paint(color, s string) string {
	if !p.Enabled || color == "" {
		return s
	}
	return color + s + ResetColor
}

// Method pads and colours an HTTP method for a route listing.
func (p Painter) Method(method string) string {
	color, ok := MethodColors[method]
	if !ok {
		color = Gray
	}
	return p.Paint(color, fmt.Sprintf("%-7s", method))
}

// Published renders an article's publication state.
func (p Painter) Published(published bool) string {
	if published {
		return p.Paint(Green, "published")
	}
	return p.Paint(Yellow, "draft")
}

// Flag renders a yes/no column.
func (p Painter) Flag(set bool) string {
	if set {
		return p.Paint(Green, "yes")
	}
	return p.Paint(Gray, "no")
}

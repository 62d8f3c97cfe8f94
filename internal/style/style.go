// Package style computes concrete presentation values from the sparse
// per-block style overrides stored in a document. The same resolution
// functions back both the editor preview and the public renderer, so the
// two surfaces can never disagree on how a block looks.
package style

import "strconv"

// Width modes accepted in Overrides.Width. Anything else, including the
// empty string, resolves to full width.
const (
	WidthFull   = "full"
	WidthWide   = "wide"
	WidthMedium = "medium"
	WidthNarrow = "narrow"
	WidthCustom = "custom"
)

// Alignment values accepted in Overrides.Align.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// DefaultSpacerHeight is the rendered height of a spacer block that
// carries no height override.
const DefaultSpacerHeight = "50px"

// Overrides is the sparse style map carried in a block's data.styles.
// Every field is optional; the zero value means "use the rendering
// default for this block type".
type Overrides struct {
	Width       string `json:"width,omitempty"`
	CustomWidth string `json:"customWidth,omitempty"`

	Height     float64 `json:"height,omitempty"`
	HeightUnit string  `json:"heightUnit,omitempty"`

	Align string `json:"align,omitempty"`

	PaddingTop    int `json:"paddingTop,omitempty"`
	PaddingRight  int `json:"paddingRight,omitempty"`
	PaddingBottom int `json:"paddingBottom,omitempty"`
	PaddingLeft   int `json:"paddingLeft,omitempty"`

	MarginTop    int `json:"marginTop,omitempty"`
	MarginBottom int `json:"marginBottom,omitempty"`

	Background   string `json:"background,omitempty"`
	BorderRadius int    `json:"borderRadius,omitempty"`

	FontSize string `json:"fontSize,omitempty"`
}

// IsZero reports whether no override is set at all.
func (o Overrides) IsZero() bool {
	return o == Overrides{}
}

// Computed holds the concrete CSS values produced by Resolve. Empty
// string means the property is not set and the surface's own default
// applies.
type Computed struct {
	MaxWidth string
	Height   string

	MarginLeft  string
	MarginRight string

	PaddingTop    string
	PaddingRight  string
	PaddingBottom string
	PaddingLeft   string

	MarginTop    string
	MarginBottom string

	Background   string
	BorderRadius string
}

// Resolve turns a sparse override map into concrete style values for a
// block of the given type. It is pure: no state, no side effects, same
// output for the same input.
func Resolve(o Overrides, blockType string) Computed {
	var c Computed

	switch o.Width {
	case WidthWide:
		c.MaxWidth = "80%"
	case WidthMedium:
		c.MaxWidth = "60%"
	case WidthNarrow:
		c.MaxWidth = "40%"
	case WidthCustom:
		c.MaxWidth = o.CustomWidth
	default:
		c.MaxWidth = "100%"
	}

	if o.Height != 0 {
		unit := o.HeightUnit
		if unit == "" {
			unit = "px"
		}
		c.Height = formatNumber(o.Height) + unit
	} else if blockType == "spacer" {
		// A spacer's height is its only visible content.
		c.Height = DefaultSpacerHeight
	}

	switch o.Align {
	case AlignCenter:
		c.MarginLeft = "auto"
		c.MarginRight = "auto"
	case AlignRight:
		c.MarginLeft = "auto"
	}

	if o.PaddingTop != 0 {
		c.PaddingTop = px(o.PaddingTop)
	}
	if o.PaddingRight != 0 {
		c.PaddingRight = px(o.PaddingRight)
	}
	if o.PaddingBottom != 0 {
		c.PaddingBottom = px(o.PaddingBottom)
	}
	if o.PaddingLeft != 0 {
		c.PaddingLeft = px(o.PaddingLeft)
	}

	if o.MarginTop != 0 {
		c.MarginTop = px(o.MarginTop)
	}
	if o.MarginBottom != 0 {
		c.MarginBottom = px(o.MarginBottom)
	}

	// White is the color picker's "unset" sentinel, not an override.
	if o.Background != "" && o.Background != "#ffffff" {
		c.Background = o.Background
	}

	if o.BorderRadius != 0 {
		c.BorderRadius = px(o.BorderRadius)
	}

	return c
}

// InlineCSS renders the computed values as an inline style declaration,
// properties in a fixed order so output is reproducible byte for byte.
func (c Computed) InlineCSS() string {
	var b []byte
	appendProp := func(name, val string) {
		if val == "" {
			return
		}
		if len(b) > 0 {
			b = append(b, ';')
		}
		b = append(b, name...)
		b = append(b, ':')
		b = append(b, val...)
	}

	appendProp("max-width", c.MaxWidth)
	appendProp("height", c.Height)
	appendProp("margin-left", c.MarginLeft)
	appendProp("margin-right", c.MarginRight)
	appendProp("padding-top", c.PaddingTop)
	appendProp("padding-right", c.PaddingRight)
	appendProp("padding-bottom", c.PaddingBottom)
	appendProp("padding-left", c.PaddingLeft)
	appendProp("margin-top", c.MarginTop)
	appendProp("margin-bottom", c.MarginBottom)
	appendProp("background-color", c.Background)
	appendProp("border-radius", c.BorderRadius)

	return string(b)
}

func px(n int) string {
	return strconv.Itoa(n) + "px"
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

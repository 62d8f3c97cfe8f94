package style

// Font size classes, smallest to largest.
const (
	FontSM  = "sm"
	FontMD  = "base"
	FontLG  = "lg"
	FontXL  = "xl"
	Font2XL = "2xl"
	Font3XL = "3xl"
)

// FontSizeClass returns the font size class for a block. An explicit
// fontSize override always wins; otherwise each block type has a fixed
// default. headingLevel is only consulted for heading blocks.
//
// Both the editor and the renderer call this exact function. Keeping a
// single implementation is what guarantees the preview matches the
// published page.
func FontSizeClass(o Overrides, blockType string, headingLevel int) string {
	if o.FontSize != "" {
		return o.FontSize
	}

	switch blockType {
	case "heading", "header":
		switch headingLevel {
		case 1:
			return Font3XL
		case 3:
			return FontXL
		case 4:
			return FontLG
		default:
			return Font2XL
		}
	case "paragraph", "list":
		return FontLG
	case "quote":
		return FontXL
	default:
		return FontMD
	}
}

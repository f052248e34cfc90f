package pdf

// Font is one of the standard PDF faces a certificate can be stamped with.
type Font int

const (
	HelveticaBold Font = iota
	Helvetica
	TimesRoman
	TimesBold
	Courier
	CourierBold
)

// DefaultFont is used for missing or unrecognized font style keys.
const DefaultFont = HelveticaBold

// ParseFont maps an event font_style key to a Font. Unknown keys fall back to DefaultFont.
func ParseFont(key string) Font {
	switch key {
	case "Helvetica":
		return Helvetica
	case "Helvetica-Bold":
		return HelveticaBold
	case "Times-Roman":
		return TimesRoman
	case "Times-Bold":
		return TimesBold
	case "Courier":
		return Courier
	case "Courier-Bold":
		return CourierBold
	default:
		return DefaultFont
	}
}

func (f Font) String() string {
	switch f {
	case Helvetica:
		return "Helvetica"
	case TimesRoman:
		return "Times-Roman"
	case TimesBold:
		return "Times-Bold"
	case Courier:
		return "Courier"
	case CourierBold:
		return "Courier-Bold"
	default:
		return "Helvetica-Bold"
	}
}

// Family is the core font family name.
func (f Font) Family() string {
	switch f {
	case TimesRoman, TimesBold:
		return "Times"
	case Courier, CourierBold:
		return "Courier"
	default:
		return "Helvetica"
	}
}

// Style is "B" for bold faces and "" otherwise.
func (f Font) Style() string {
	switch f {
	case HelveticaBold, TimesBold, CourierBold:
		return "B"
	default:
		return ""
	}
}

// Regular returns the non-bold face of the same family.
func (f Font) Regular() Font {
	switch f.Family() {
	case "Times":
		return TimesRoman
	case "Courier":
		return Courier
	default:
		return Helvetica
	}
}

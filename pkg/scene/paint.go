package scene

// Paint is the resolved presentation of a recorded element for backends
// that have no stylesheet. It mirrors the rules of the SVG stylesheet.
type Paint struct {
	Fill     RGBA
	Stroke   RGBA
	FontSize float64
	Dashed   bool
}

var (
	colorBlack     = RGBA{0, 0, 0, 255}
	colorLabel     = RGBA{0x66, 0x66, 0x66, 255}
	colorAxis      = RGBA{0x99, 0x99, 0x99, 255}
	colorConnector = RGBA{128, 128, 128, 255}
)

// Font sizes in pixels.
const (
	LabelFontSize = 12.0
	AxisFontSize  = 11.0
)

// Resolve returns the paint for e.
func Resolve(e Element) Paint {
	switch e.Kind {
	case KindRect:
		return Paint{Fill: ColorOr(e.Fill(), colorBlack)}
	case KindText:
		p := Paint{Fill: colorBlack, FontSize: LabelFontSize}
		switch {
		case e.Text.Fill != "":
			p.Fill = ColorOr(e.Text.Fill, colorBlack)
		case e.HasClass("axis"):
			p.Fill, p.FontSize = colorLabel, AxisFontSize
		case e.HasClass("bar"):
			p.Fill = colorLabel
		default:
			p.Fill = ColorOr(e.Fill(), colorBlack)
		}
		return p
	case KindLine:
		p := Paint{Stroke: colorBlack, Dashed: e.Line.Dashed}
		switch {
		case e.Line.Stroke != "":
			p.Stroke = ColorOr(e.Line.Stroke, colorBlack)
		case e.HasClass("connector"):
			p.Stroke, p.Dashed = colorConnector, true
		case e.HasClass("axis"):
			p.Stroke = colorAxis
		}
		return p
	}
	return Paint{}
}

package report

import (
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// FontKind selects one of the report fonts
type FontKind uint8

const (
	FontDefault FontKind = iota
	FontNormal
	FontBold
	FontRed
	FontBlue
	FontGreen
	FontTitle
	FontHeader
)

// AlignKind selects one of the report alignments
type AlignKind uint8

const (
	AlignNone AlignKind = iota
	AlignCenter
	AlignRight
	AlignLeftTop
)

// BorderKind selects one of the report borders
type BorderKind uint8

const (
	BorderNone BorderKind = iota
	BorderThin
	// BorderAccentBottom marks the last row of a store block.
	BorderAccentBottom
)

// Colors
const (
	ColorNegative  = "FF0000"
	ColorPositive  = "0000FF"
	ColorRegionSum = "008000"
	ColorAccent    = "0000FF"
	ColorHeader    = "D9E1F2"
	colorLine      = "000000"
)

// numFmtThousands is the built-in "#,##0" format
const numFmtThousands = 3

// CellStyle is a comparable description of a cell format
type CellStyle struct {
	Font       FontKind
	Align      AlignKind
	Border     BorderKind
	Amount     bool
	HeaderFill bool
}

// StyleManager creates each distinct CellStyle once per workbook
type StyleManager struct {
	file  *excelize.File
	cache map[CellStyle]int
}

// NewStyleManager creates a style manager bound to the given file
func NewStyleManager(f *excelize.File) *StyleManager {
	return &StyleManager{file: f, cache: make(map[CellStyle]int)}
}

// ID returns the excelize style id of cs, creating it on first use
func (sm *StyleManager) ID(cs CellStyle) (int, error) {
	if id, ok := sm.cache[cs]; ok {
		return id, nil
	}

	id, err := sm.file.NewStyle(cs.excelize())
	if err != nil {
		return 0, err
	}

	sm.cache[cs] = id
	return id, nil
}

// Len is the number of distinct styles created so far
func (sm *StyleManager) Len() int {
	return len(sm.cache)
}

func (cs CellStyle) excelize() *excelize.Style {
	style := &excelize.Style{
		Font:      cs.Font.font(),
		Alignment: cs.Align.alignment(),
		Border:    cs.Border.borders(),
	}
	if cs.Amount {
		style.NumFmt = numFmtThousands
	}
	if cs.HeaderFill {
		style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{ColorHeader}}
	}
	return style
}

func (k FontKind) font() *excelize.Font {
	switch k {
	case FontNormal:
		return &excelize.Font{Family: FontFamily, Size: 10}
	case FontBold:
		return &excelize.Font{Family: FontFamily, Size: 10, Bold: true}
	case FontRed:
		return &excelize.Font{Family: FontFamily, Size: 10, Bold: true, Color: ColorNegative}
	case FontBlue:
		return &excelize.Font{Family: FontFamily, Size: 10, Bold: true, Color: ColorPositive}
	case FontGreen:
		return &excelize.Font{Family: FontFamily, Size: 10, Bold: true, Color: ColorRegionSum}
	case FontTitle:
		return &excelize.Font{Family: FontFamily, Size: 16, Bold: true}
	case FontHeader:
		return &excelize.Font{Family: FontFamily, Size: 12}
	default:
		return nil
	}
}

func (k AlignKind) alignment() *excelize.Alignment {
	switch k {
	case AlignCenter:
		return &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}
	case AlignRight:
		return &excelize.Alignment{Horizontal: "right", Vertical: "center", WrapText: true}
	case AlignLeftTop:
		return &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true}
	default:
		return nil
	}
}

func (k BorderKind) borders() []excelize.Border {
	switch k {
	case BorderThin:
		return []excelize.Border{
			{Type: "left", Color: colorLine, Style: 1},
			{Type: "right", Color: colorLine, Style: 1},
			{Type: "top", Color: colorLine, Style: 1},
			{Type: "bottom", Color: colorLine, Style: 1},
		}
	case BorderAccentBottom:
		return []excelize.Border{
			{Type: "left", Color: colorLine, Style: 1},
			{Type: "right", Color: colorLine, Style: 1},
			{Type: "top", Color: colorLine, Style: 1},
			{Type: "bottom", Color: ColorAccent, Style: 2},
		}
	default:
		return nil
	}
}

// varianceFont colors a variance by sign; zero keeps the given font
func varianceFont(d decimal.Decimal, zero FontKind) FontKind {
	switch d.Sign() {
	case -1:
		return FontRed
	case 1:
		return FontBlue
	default:
		return zero
	}
}

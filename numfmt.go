package xlrw

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// builtinNumFmts holds the predefined number format codes by ID.
var builtinNumFmts = map[int]string{
	0:  "General",
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	12: "# ?/?",
	13: "# ??/??",
	14: "mm-dd-yy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "hh:mm",
	21: "hh:mm:ss",
	22: "m/d/yy hh:mm",
	37: "#,##0 ;(#,##0)",
	38: "#,##0 ;[Red](#,##0)",
	39: "#,##0.00 ;(#,##0.00)",
	40: "#,##0.00 ;[Red](#,##0.00)",
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mm:ss.0",
	48: "##0.0E+0",
	49: "@",
}

// numFmt is the number format attached to a cell style.
type numFmt struct {
	id   int
	code string
}

func (n numFmt) isDate() bool {
	switch {
	case n.id >= 14 && n.id <= 22, n.id >= 27 && n.id <= 36, n.id >= 45 && n.id <= 47, n.id >= 50 && n.id <= 58:
		return true
	case n.code == "" || n.code == "General" || n.code == "@":
		return false
	}
	code := stripLiterals(n.code)
	if strings.ContainsAny(code, "0#?") && !strings.Contains(code, "[h]") {
		return false
	}
	return strings.ContainsAny(code, "ymdhs")
}

func (n numFmt) isPercent() bool {
	return n.id == 9 || n.id == 10 || strings.HasSuffix(strings.TrimSpace(n.code), "%")
}

// decimals counts the digit placeholders after the decimal point of the
// first format section.
func (n numFmt) decimals() int {
	code, _, _ := strings.Cut(n.code, ";")
	_, frac, ok := strings.Cut(code, ".")
	if !ok {
		return 0
	}
	count := 0
	for _, ch := range frac {
		if ch != '0' && ch != '#' {
			break
		}
		count++
	}
	return count
}

// stripLiterals removes quoted text, escaped characters and bracketed
// sections (colours, locales) from a format code and lower-cases it.
func stripLiterals(code string) string {
	var b strings.Builder
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case inQuote:
			inQuote = ch != '"'
		case ch == '"':
			inQuote = true
		case ch == '\\':
			i++
		case ch == '[':
			inBracket = true
			if strings.HasPrefix(strings.ToLower(code[i:]), "[h]") {
				b.WriteString("[h]")
			}
		case ch == ']':
			inBracket = false
		case !inBracket:
			b.WriteByte(ch)
		}
	}
	return strings.ToLower(b.String())
}

// formatNumber renders v the way the format code displays it. Codes outside
// the common numeric, percent and date families fall back to plain text.
func formatNumber(v float64, nf numFmt, date1904 bool) string {
	switch {
	case nf.isDate():
		t, err := excelize.ExcelDateToTime(v, date1904)
		if err != nil {
			return plainNumber(v)
		}
		return formatDateTime(t, stripLiterals(nf.code))
	case nf.isPercent():
		return decimal.NewFromFloat(v).Shift(2).StringFixed(int32(nf.decimals())) + "%"
	case strings.Contains(nf.code, "#,##"):
		d := min(nf.decimals(), 9)
		layout := "#,###."
		if d > 0 {
			layout += strings.Repeat("#", d)
		}
		return humanize.FormatFloat(layout, v)
	case nf.code != "" && nf.code != "General" && strings.ContainsAny(nf.code, "0#") && !strings.ContainsAny(nf.code, "E?/"):
		return decimal.NewFromFloat(v).StringFixed(int32(nf.decimals()))
	}
	return plainNumber(v)
}

// plainNumber renders v without scientific notation.
func plainNumber(v float64) string {
	return decimal.NewFromFloat(v).String()
}

// formatDateTime renders t for a lower-cased date code. Only the date and
// time parts the code mentions are rendered.
func formatDateTime(t time.Time, code string) string {
	hasDate := strings.ContainsAny(code, "yd") || (strings.Contains(code, "m") && !strings.ContainsAny(code, "hs"))
	hasTime := strings.ContainsAny(code, "hs")
	switch {
	case hasDate && hasTime:
		return t.Format("2006-01-02 15:04:05")
	case hasTime:
		return t.Format("15:04:05")
	}
	return t.Format("2006-01-02")
}

// formatDate renders a date value as text.
func formatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}

package xlrw

import (
	"regexp"
	"strconv"
	"strings"
)

// RowPlaceholder stands for the row number in a formula template.
const RowPlaceholder = "{0}"

// rowTokenRegex matches a row number directly after a column letter, as in
// "A1" or "SUM(B2:C2)". Absolute rows ("A$1") do not match.
var rowTokenRegex = regexp.MustCompile(`([A-Z])(\d+)`)

// ExpandFormula substitutes the row placeholder with rowNumber.
func ExpandFormula(formula string, rowNumber int) string {
	return strings.ReplaceAll(formula, RowPlaceholder, strconv.Itoa(rowNumber))
}

// RebuildFormula rewrites every relative row number in formula to rowNumber.
//
// The rewrite does not parse the formula: all row tokens get the same row, so
// it is only correct for formulas that reference a single row. "A1*B1" on row
// 7 becomes "A7*B7", but "A1+A2+A3" on row 10 becomes "A10+A10+A10".
func RebuildFormula(formula string, rowNumber int) string {
	row := strconv.Itoa(rowNumber)
	return replaceRowTokens(formula, func(string) string { return row })
}

// TemplateFormula turns a formula read from rowNumber back into a template:
// row tokens equal to rowNumber become the row placeholder.
func TemplateFormula(formula string, rowNumber int) string {
	row := strconv.Itoa(rowNumber)
	return replaceRowTokens(formula, func(token string) string {
		if token == row {
			return RowPlaceholder
		}
		return token
	})
}

// replaceRowTokens rewrites each row token through fn. Digits that end a
// function name, such as LOG10( or ATAN2(, are left alone.
func replaceRowTokens(formula string, fn func(token string) string) string {
	matches := rowTokenRegex.FindAllStringSubmatchIndex(formula, -1)
	if len(matches) == 0 {
		return formula
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		end := m[1]
		if end < len(formula) && (formula[end] == '(' || isIdentChar(formula[end])) {
			continue
		}
		b.WriteString(formula[last:m[4]])
		b.WriteString(fn(formula[m[4]:m[5]]))
		last = end
	}
	b.WriteString(formula[last:])
	return b.String()
}

func isIdentChar(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// normalizeFormula drops the leading "=" a user may type.
func normalizeFormula(formula string) string {
	return strings.TrimPrefix(strings.TrimSpace(formula), "=")
}

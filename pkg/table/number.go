package table

import (
	"errors"
	"strconv"
	"strings"
)

var errEmptyNumber = errors.New("empty number")

var spaceStripper = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", "\t", "")

// ParseNumber reads text the way the registry spreadsheets store numbers:
// any spaces are dropped, "," is a thousands separator and "." the decimal
// point. A sign may lead or trail and parentheses mark a negative value.
func ParseNumber(text string) (float64, error) {
	s := spaceStripper.Replace(strings.TrimSpace(text))
	if s == "" {
		return 0, errEmptyNumber
	}

	negative := false
	if len(s) > 2 && s[0] == '(' && s[len(s)-1] == ')' {
		negative = true
		s = s[1 : len(s)-1]
	}
	if n := len(s); n > 1 && (s[n-1] == '-' || s[n-1] == '+') {
		if s[n-1] == '-' {
			negative = !negative
		}
		s = s[:n-1]
	}
	if strings.ContainsAny(s, "xX_()") {
		return 0, &strconv.NumError{Func: "ParseFloat", Num: text, Err: strconv.ErrSyntax}
	}
	s = strings.ReplaceAll(s, ",", "")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if negative {
		v = -v
	}
	return v, nil
}

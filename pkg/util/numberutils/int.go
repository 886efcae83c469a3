package numberutils

import (
	"strconv"
	"strings"
	"unicode"
)

// IsDigits checks if the given string is non-empty and contains only ASCII digits.
func IsDigits(str string) bool {
	if str == "" {
		return false
	}
	for _, r := range str {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ToIntWithError converts the trimmed string to an integer.
func ToIntWithError(str string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(str))
}

package numberutils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToFloatWithError converts the trimmed string to a finite float64.
func ToFloatWithError(str string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("value %q is not finite", str)
	}
	return value, nil
}

// TruncateDecimals formats value with at most places decimals, dropping the
// remaining digits without rounding. It works on the shortest decimal
// representation so 41.289999 stays 41.28 and 0.1 never becomes 0.09.
// Negative zero is rendered without its sign.
func TruncateDecimals(value float64, places int) string {
	repr := strconv.FormatFloat(value, 'f', -1, 64)

	negative := strings.HasPrefix(repr, "-")
	repr = strings.TrimPrefix(repr, "-")

	whole, fraction, _ := strings.Cut(repr, ".")
	if len(fraction) > places {
		fraction = fraction[:places]
	}
	fraction += strings.Repeat("0", places-len(fraction))

	result := whole
	if places > 0 {
		result += "." + fraction
	}
	if negative && strings.Trim(result, "0.") != "" {
		result = "-" + result
	}
	return result
}

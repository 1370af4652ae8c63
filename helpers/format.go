package helpers

import "fmt"

// FormatUSD formats a price as US dollars with thousand separators
func FormatUSD(amount float64) string {
	value := int64(amount)

	// Handle negative numbers
	negative := value < 0
	if negative {
		value = -value
	}

	// Convert to string and add thousand separators
	str := fmt.Sprintf("%d", value)
	length := len(str)

	var result string
	for i, digit := range str {
		if i > 0 && (length-i)%3 == 0 {
			result += ","
		}
		result += string(digit)
	}

	if negative {
		return fmt.Sprintf("$-%s", result)
	}
	return fmt.Sprintf("$%s", result)
}

// FormatPercent formats a percentage value to two decimals
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.2f%%", pct)
}

package checkoutapi

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	priceDecimals = 2
	// longer input is never a shop price; it also keeps decimal arithmetic cheap
	maxPriceLength = 20
)

var nonPriceChars = regexp.MustCompile(`[^0-9.,]`)

// NormalizePrice turns a storefront price into a positive amount with two decimals.
func NormalizePrice(price Price) (decimal.Decimal, error) {
	raw := strings.TrimSpace(price.Value)
	if raw == "" {
		return decimal.Zero, newValidationError(msgMissingDetails)
	}
	if strings.Contains(raw, "-") {
		return decimal.Zero, newValidationError(msgInvalidPrice)
	}

	text := raw
	if !price.IsNumber {
		text = normalizeSeparators(raw)
	}

	if len(text) > maxPriceLength || strings.ContainsAny(text, "eE") {
		return decimal.Zero, newValidationError(msgInvalidPrice)
	}

	value, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, newValidationError(msgInvalidPrice)
	}

	value = value.Round(priceDecimals)
	if !value.IsPositive() {
		return decimal.Zero, newValidationError(msgInvalidPrice)
	}

	return value, nil
}

// normalizeSeparators accepts "1,200.50", "1.200,50", "1 200,50", "1.200" and "850".
func normalizeSeparators(raw string) string {
	cleaned := nonPriceChars.ReplaceAllString(raw, "")

	lastDot := strings.LastIndex(cleaned, ".")
	lastComma := strings.LastIndex(cleaned, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		// the separator that comes last is the decimal marker
		if lastComma > lastDot {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			return strings.Replace(cleaned, ",", ".", 1)
		}
		return strings.ReplaceAll(cleaned, ",", "")

	case lastDot >= 0:
		return removeDotThousandSeparators(cleaned)

	case lastComma >= 0:
		if strings.Count(cleaned, ",") > 1 {
			return strings.ReplaceAll(cleaned, ",", "")
		}
		return strings.Replace(cleaned, ",", ".", 1)

	default:
		return cleaned
	}
}

// removeDotThousandSeparators drops every dot that is followed by exactly three digits.
func removeDotThousandSeparators(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '.' && digitsFollowing(s, i+1) == 3 {
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

func digitsFollowing(s string, from int) int {
	count := 0
	for i := from; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		count++
	}
	return count
}

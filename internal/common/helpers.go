package common

import (
	"fmt"
	"math/big"
	"strings"
)

const (
	EtherDecimals  = 18 // native EVM currencies use 18 decimals (wei)
	DisplayDecimal = 4  // balances are shown with 4 fractional digits
)

// WeiToEther converts wei to an ether string without float precision loss.
// Trailing zeros are trimmed but one fractional digit is always kept: 1e18 → "1.0".
func WeiToEther(wei *big.Int) string {
	if wei == nil {
		return "0.0"
	}
	sign := ""
	v := new(big.Int).Set(wei)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}

	s := formatWithDecimals(v.String(), EtherDecimals)
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return sign + s
}

// FormatFixed renders a decimal string with exactly places fractional digits,
// rounding half away from zero: FormatFixed("1.23456789", 4) = "1.2346".
func FormatFixed(value string, places int) (string, error) {
	if places < 0 {
		return "", fmt.Errorf("negative places %d", places)
	}
	value = strings.TrimSpace(value)
	sign := ""
	if strings.HasPrefix(value, "-") {
		sign = "-"
		value = value[1:]
	}

	whole, frac, err := splitDecimal(value)
	if err != nil {
		return "", err
	}

	roundUp := false
	if len(frac) > places {
		roundUp = frac[places] >= '5'
		frac = frac[:places]
	} else {
		frac += strings.Repeat("0", places-len(frac))
	}

	n, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return "", fmt.Errorf("invalid decimal %q", value)
	}
	if roundUp {
		n.Add(n, big.NewInt(1))
	}
	if n.Sign() == 0 {
		sign = ""
	}
	if places == 0 {
		return sign + n.String(), nil
	}
	return sign + formatWithDecimals(n.String(), places), nil
}

// formatWithDecimals converts integer digits to decimal string by inserting decimal point
// Example: formatWithDecimals("24981836", 9) = "0.024981836"
func formatWithDecimals(digits string, decimals int) string {
	s := digits

	// Pad with leading zeros if needed
	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}

	// Insert decimal point
	pos := len(s) - decimals
	return s[:pos] + "." + s[pos:]
}

// splitDecimal validates an unsigned decimal string and returns its whole and fractional digits.
func splitDecimal(s string) (whole, frac string, err error) {
	if s == "" {
		return "", "", fmt.Errorf("empty string")
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return "", "", fmt.Errorf("invalid decimal format")
	}
	whole = parts[0]
	if len(parts) == 2 {
		frac = parts[1]
	}
	if whole == "" {
		whole = "0"
	}
	if !isDigits(whole) || (frac != "" && !isDigits(frac)) {
		return "", "", fmt.Errorf("invalid decimal %q", s)
	}
	return whole, frac, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

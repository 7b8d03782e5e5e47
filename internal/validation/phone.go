package validation

import (
	"regexp"
	"strings"
)

var phoneRegex = regexp.MustCompile(`^\+62[0-9]{7,13}$`)

// NormalizePhone converts local Indonesian numbers to +62 form:
// "0812..." and "62812..." both become "+62812...".
func NormalizePhone(phone string) string {
	p := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(phone))

	if strings.HasPrefix(p, "0") {
		p = "62" + p[1:]
	}
	if strings.HasPrefix(p, "62") {
		p = "+" + p
	}
	return p
}

func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// MaskName hides a receiver's name on inquiry. Each word keeps its first
// two and last characters.
func MaskName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		runes := []rune(w)
		for j := range runes {
			if j < 2 || j == len(runes)-1 {
				continue
			}
			runes[j] = '*'
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

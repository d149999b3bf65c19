package privacy

import "strings"

// MaskEmail keeps the first character of the local part and the domain,
// replacing the rest of the local part with asterisks.
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}

	local, domain, hasDomain := strings.Cut(email, "@")
	runes := []rune(local)
	stars := len(runes) - 1
	if stars < 1 {
		stars = 1
	}

	var b strings.Builder
	if len(runes) > 0 {
		b.WriteRune(runes[0])
	}
	b.WriteString(strings.Repeat("*", stars))
	if hasDomain {
		b.WriteByte('@')
		b.WriteString(domain)
	}
	return b.String()
}

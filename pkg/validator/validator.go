package validator

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	typeRegex  = regexp.MustCompile(`^[a-z][a-z0-9_]{1,63}$`)
)

func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func cleanPhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == '+' {
			return r
		}
		return -1
	}, phone)
}

func ValidatePhone(phone string) bool {
	return phoneRegex.MatchString(cleanPhone(phone))
}

// FormatPhone strips separators, keeping digits and a leading plus.
func FormatPhone(phone string) string {
	return cleanPhone(phone)
}

func ValidateNamePart(name string) bool {
	if len([]rune(name)) < 2 {
		return false
	}

	for _, r := range name {
		if !unicode.IsLetter(r) && r != '-' && r != ' ' && r != '\'' && r != '.' {
			return false
		}
	}

	return true
}

// ValidateAppointmentType accepts lowercase snake_case keys such as "new_patient".
func ValidateAppointmentType(t string) bool {
	return typeRegex.MatchString(t)
}

func FormatName(name string) string {
	if len(name) == 0 {
		return ""
	}

	parts := strings.Fields(name)
	for i, part := range parts {
		subparts := strings.Split(part, "-")
		for j, subpart := range subparts {
			runes := []rune(subpart)
			if len(runes) > 0 {
				subparts[j] = strings.ToUpper(string(runes[:1])) + strings.ToLower(string(runes[1:]))
			}
		}
		parts[i] = strings.Join(subparts, "-")
	}

	return strings.Join(parts, " ")
}

func SanitizeString(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r == '<' || r == '>' || r == '&' || r == '"' || r == '`' || r == ';' {
			return -1
		}
		return r
	}, s))
}

// Package isbn validates ISBN-10 and ISBN-13 identifiers.
//
// All functions are pure and total: any input string maps to a result
// without panicking.
package isbn

import (
	"errors"
	"strings"
)

// Kind identifies which ISBN form a code takes.
type Kind string

const (
	KindNone   Kind = ""
	KindISBN10 Kind = "isbn10"
	KindISBN13 Kind = "isbn13"
)

var (
	// ErrInvalidISBN is returned when a conversion input fails validation.
	ErrInvalidISBN = errors.New("invalid isbn")

	// ErrNoISBN10Form is returned for 979-prefixed ISBN-13s, which have no ISBN-10 equivalent.
	ErrNoISBN10Form = errors.New("isbn has no isbn-10 form")
)

// Clean strips whitespace and hyphens and uppercases the remainder.
// Input that is already clean is returned without copying.
func Clean(code string) string {
	if isClean(code) {
		return code
	}
	var b strings.Builder
	b.Grow(len(code))
	for _, r := range code {
		switch r {
		case ' ', '\t', '\n', '\r', '\v', '\f', '-':
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}

func isClean(code string) bool {
	for i := 0; i < len(code); i++ {
		switch c := code[i]; {
		case c == ' ', c == '-', c >= '\t' && c <= '\r', c >= 'a' && c <= 'z', c >= 0x80:
			return false
		}
	}
	return true
}

// IsISBN13Checksum reports whether a 13-digit string has a valid ISBN-13
// check digit. Digits at even indexes weigh 1, odd indexes weigh 3.
// Input that is not exactly 13 ASCII digits is rejected.
func IsISBN13Checksum(isbn string) bool {
	if len(isbn) != 13 || !allDigits(isbn) {
		return false
	}
	sum := 0
	for i := 0; i < 13; i++ {
		d := int(isbn[i] - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return sum%10 == 0
}

// IsISBN10Checksum reports whether code is a valid ISBN-10 after
// whitespace and hyphens are stripped. The last character may be X.
func IsISBN10Checksum(code string) bool {
	cleaned := Clean(code)
	if len(cleaned) != 10 || !allDigits(cleaned[:9]) {
		return false
	}
	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(cleaned[i]-'0') * (10 - i)
	}
	switch last := cleaned[9]; {
	case last == 'X':
		sum += 10
	case last >= '0' && last <= '9':
		sum += int(last - '0')
	default:
		return false
	}
	return sum%11 == 0
}

// IsValid reports whether code is a valid ISBN-10 or a valid 978/979 ISBN-13.
func IsValid(code string) bool {
	return KindOf(code) != KindNone
}

// KindOf returns the kind of a valid ISBN, or KindNone if code is invalid.
func KindOf(code string) Kind {
	cleaned := Clean(code)
	switch len(cleaned) {
	case 13:
		if allDigits(cleaned) && hasBookland(cleaned) && IsISBN13Checksum(cleaned) {
			return KindISBN13
		}
	case 10:
		if IsISBN10Checksum(cleaned) {
			return KindISBN10
		}
	}
	return KindNone
}

// ToISBN13 converts a valid ISBN-10 or ISBN-13 to its 13-digit form.
func ToISBN13(code string) (string, error) {
	cleaned := Clean(code)
	switch KindOf(cleaned) {
	case KindISBN13:
		return cleaned, nil
	case KindISBN10:
		body := "978" + cleaned[:9]
		return body + isbn13CheckDigit(body), nil
	default:
		return "", ErrInvalidISBN
	}
}

// ToISBN10 converts a valid 978-prefixed ISBN-13 (or an ISBN-10) to its
// 10-character form.
func ToISBN10(code string) (string, error) {
	cleaned := Clean(code)
	switch KindOf(cleaned) {
	case KindISBN10:
		return cleaned, nil
	case KindISBN13:
		if !strings.HasPrefix(cleaned, "978") {
			return "", ErrNoISBN10Form
		}
		body := cleaned[3:12]
		return body + isbn10CheckDigit(body), nil
	default:
		return "", ErrInvalidISBN
	}
}

// HasBooklandPrefix reports whether s starts with 978 or 979.
func HasBooklandPrefix(s string) bool {
	return hasBookland(s)
}

func hasBookland(s string) bool {
	return strings.HasPrefix(s, "978") || strings.HasPrefix(s, "979")
}

// isbn13CheckDigit computes the check digit for a 12-digit body.
func isbn13CheckDigit(body string) string {
	sum := 0
	for i := 0; i < 12; i++ {
		d := int(body[i] - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return string(rune('0' + (10-sum%10)%10))
}

// isbn10CheckDigit computes the check character for a 9-digit body.
func isbn10CheckDigit(body string) string {
	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(body[i]-'0') * (10 - i)
	}
	check := (11 - sum%11) % 11
	if check == 10 {
		return "X"
	}
	return string(rune('0' + check))
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

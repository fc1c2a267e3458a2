package ical

import (
	"strings"
	"time"
	"unicode/utf8"
)

const maxLineOctets = 75

// Fold turns a raw writer into a content-line writer: each call is one
// logical line, terminated with CRLF and folded every 75 octets without
// splitting a UTF-8 sequence. Continuation lines start with a space, which
// counts toward their 75 octets.
func Fold(write func(string)) func(string) {
	return func(line string) {
		limit := maxLineOctets
		for len(line) > limit {
			cut := limit
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			write(line[:cut])
			write("\r\n ")
			line = line[cut:]
			limit = maxLineOctets - 1
		}
		write(line)
		write("\r\n")
	}
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
)

// EscapeText escapes a TEXT property value.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

func quoteParam(s string) string {
	s = strings.ReplaceAll(s, `"`, "'")
	if strings.ContainsAny(s, ":;,") {
		return `"` + s + `"`
	}
	return s
}

// FormatDateTime writes t as a UTC DATE-TIME, YYYYMMDDTHHMMSSZ.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

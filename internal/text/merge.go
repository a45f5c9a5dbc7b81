package text

import (
	"strings"
	"unicode/utf8"
)

// MergeLabeled assembles per-file transcriptions in slice order, each under a
// heading carrying its label and separated by a horizontal rule. Empty texts
// (failed units) are skipped.
func MergeLabeled(texts, labels []string) string {
	var b strings.Builder
	for i, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n---\n\n")
		}
		b.WriteString("### ")
		b.WriteString(labels[i])
		b.WriteString("\n\n")
		b.WriteString(t)
	}
	return b.String()
}

// MergeFlow concatenates page transcriptions in slice order into one document.
// A page starting with a Markdown heading begins a new paragraph; otherwise
// pages are joined with a single space, except across a CJK-CJK boundary
// where prose flows without one. Empty texts are skipped.
func MergeFlow(texts []string) string {
	var b strings.Builder
	for _, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if b.Len() == 0 {
			b.WriteString(t)
			continue
		}
		if strings.HasPrefix(t, "#") {
			b.WriteString("\n\n")
			b.WriteString(t)
			continue
		}
		last, _ := utf8.DecodeLastRuneInString(b.String())
		first, _ := utf8.DecodeRuneInString(t)
		if !(isCJK(last) && isCJK(first)) {
			b.WriteString(" ")
		}
		b.WriteString(t)
	}
	return b.String()
}

func isCJK(r rune) bool {
	return r >= 0x4E00 && r <= 0x9FFF
}

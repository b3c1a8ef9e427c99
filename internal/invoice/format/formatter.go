// Package format renders invoice numbers from a configurable template.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Template tokens. {SEQn} zero-pads the sequence to n digits, so the
// default "INV-{YYYY}-{SEQ3}" yields numbers like INV-2024-007.
const (
	tokenYear4 = "{YYYY}"
	tokenYear2 = "{YY}"
	tokenMonth = "{MM}"
	tokenDay   = "{DD}"
	tokenSeq   = "{SEQ"
)

// Number renders the invoice number for the given issue date and sequence.
func Number(template string, issueDate time.Time, seq int64) string {
	out := template
	out = strings.ReplaceAll(out, tokenYear4, issueDate.Format("2006"))
	out = strings.ReplaceAll(out, tokenYear2, issueDate.Format("06"))
	out = strings.ReplaceAll(out, tokenMonth, issueDate.Format("01"))
	out = strings.ReplaceAll(out, tokenDay, issueDate.Format("02"))
	return replaceSeq(out, seq)
}

func replaceSeq(template string, seq int64) string {
	for {
		start := strings.Index(template, tokenSeq)
		if start < 0 {
			return template
		}
		end := strings.Index(template[start:], "}")
		if end < 0 {
			return template
		}
		end += start

		width, err := strconv.Atoi(template[start+len(tokenSeq) : end])
		if err != nil {
			width = 0
		}
		rendered := fmt.Sprintf("%0*d", width, seq)
		template = template[:start] + rendered + template[end+1:]
	}
}

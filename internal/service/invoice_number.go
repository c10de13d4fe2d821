package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Invoice numbers are date-scoped: YYYYMMDD-NNNN with a zero-padded
// 4-digit counter starting at 0001 each day. The padding keeps lexical
// and numeric order identical within a day, which is what the
// last-number lookup relies on. The counter is not guarded past 9999.
const invoiceDateLayout = "20060102"

// invoiceDatePrefix derives the day prefix from a wall-clock instant.
func invoiceDatePrefix(t time.Time) string {
	return t.Format(invoiceDateLayout)
}

// nextInvoiceNumber produces the next number for a day given the
// greatest stored number with that prefix ("" when the day has none).
// A malformed suffix restarts the day at 0001; the unique index on the
// number column is what actually guarantees no duplicates land.
func nextInvoiceNumber(prefix, last string) string {
	seq := 1
	if last != "" {
		if i := strings.IndexByte(last, '-'); i >= 0 {
			if n, err := strconv.Atoi(last[i+1:]); err == nil {
				seq = n + 1
			}
		}
	}
	return fmt.Sprintf("%s-%04d", prefix, seq)
}

package domain

import "time"

// EffectiveDateFormat is the layout of the "as of" text on the holdings page.
// Parse failure here means the page format drifted and the run must stop.
const EffectiveDateFormat = "Data as of 1/2/06"

// summaryDateFormat renders dates in advisory messages, e.g. "Wed Aug 27, 2025".
const summaryDateFormat = "Mon Jan 02, 2006"

// DateInt converts a calendar date to the ledger's integer form YYYYMMDD.
func DateInt(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}

// ParseEffectiveDate parses the effective-date text shown above the
// holdings table.
func ParseEffectiveDate(text string) (time.Time, error) {
	return time.Parse(EffectiveDateFormat, text)
}

// FormatSummaryDate renders a date the way advisory messages show it.
func FormatSummaryDate(t time.Time) string {
	return t.Format(summaryDateFormat)
}

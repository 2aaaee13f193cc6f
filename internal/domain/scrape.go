package domain

// ScrapedRow is one physical row of the holdings table. Holdings span two
// rows: the first carries the fund name in its first link, the second
// carries the data cells.
type ScrapedRow struct {
	LinkText string
	Cells    []string
}

// ScrapedTable is the holdings table as read from the page: header labels
// captured once, then the body rows in document order.
type ScrapedTable struct {
	Headers []string
	Rows    []ScrapedRow
}

// CellMap zips a data row's cells against the captured headers by position.
// Extra cells beyond the headers are dropped, matching the page's layout.
func (t ScrapedTable) CellMap(row ScrapedRow) map[string]string {
	cells := make(map[string]string, len(t.Headers))
	for i, h := range t.Headers {
		if i >= len(row.Cells) {
			break
		}
		cells[h] = row.Cells[i]
	}

	return cells
}

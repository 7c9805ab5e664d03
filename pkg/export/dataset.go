package export

// Dataset defines tabular export content. Summary lines are rendered after
// the table.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
	Summary []SummaryLine
}

// SummaryLine is a label/value pair shown below the table.
type SummaryLine struct {
	Label string
	Value string
}

func (d Dataset) record(row map[string]string) []string {
	record := make([]string, len(d.Headers))
	for i, header := range d.Headers {
		record[i] = row[header]
	}
	return record
}

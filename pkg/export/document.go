package export

// Field is a labelled value printed above or below a table, e.g. a student's CGPA.
type Field struct {
	Label string
	Value string
}

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// Document is a titled dataset with optional summary fields.
type Document struct {
	Title   string
	Summary []Field
	Table   Dataset
}

func (d Dataset) record(row map[string]string) []string {
	out := make([]string, len(d.Headers))
	for i, header := range d.Headers {
		out[i] = row[header]
	}
	return out
}

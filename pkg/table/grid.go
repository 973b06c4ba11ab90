package table

// Grid is an in-memory Sheet. Row 0 holds the header.
type Grid [][]string

// Cell implements Sheet. An empty string counts as no value.
func (g Grid) Cell(col, row int) (string, bool) {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return "", false
	}
	v := g[row][col]
	return v, v != ""
}

// DeclaredRows implements Sheet.
func (g Grid) DeclaredRows() int {
	return len(g)
}

// FromRecords builds a Table from a header and data records.
func FromRecords(header []string, records [][]string, opts ...Option) (*Table, error) {
	g := make(Grid, 0, len(records)+1)
	g = append(g, header)
	g = append(g, records...)
	return Build(g, opts...)
}

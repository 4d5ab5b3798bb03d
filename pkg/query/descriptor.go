package query

// Descriptor names the physical relation behind a logical record type and the
// columns its full-text search covers.
type Descriptor struct {
	// Name is the logical record name, e.g. "Claim".
	Name string
	// Table is the physical table holding the record's own columns.
	Table string
	// Alias qualifies the table's columns in composed statements.
	Alias string
	// KeyColumn is the primary key column, "id" when empty.
	KeyColumn string
	// FulltextColumns are the physical columns searched by the text predicate.
	FulltextColumns []string
}

func (d Descriptor) keyColumn() string {
	if d.KeyColumn == "" {
		return "id"
	}
	return d.KeyColumn
}

// Key returns the alias qualified primary key column.
func (d Descriptor) Key() string {
	return d.Alias + "." + d.keyColumn()
}

// Searchable reports whether the record declares full-text columns.
func (d Descriptor) Searchable() bool {
	return len(d.FulltextColumns) > 0
}

// QualifiedFulltextColumns returns the full-text columns qualified with the alias.
func (d Descriptor) QualifiedFulltextColumns() []string {
	cols := make([]string, 0, len(d.FulltextColumns))
	for _, c := range d.FulltextColumns {
		cols = append(cols, d.Alias+"."+c)
	}
	return cols
}

package transloc

// LoadStats summarizes a call to LoadTSV. The counters are informational only
// and never appear in the output tables.
type LoadStats struct {
	// Lines is the number of non-blank lines read, including the header.
	Lines int
	// Header is true if the first line was recognized as a header row.
	Header bool
	// ShortRows is the # of rows with fewer than 9 fields.
	ShortRows int
	// BadCoords is the # of rows whose posA or posB isn't an integer.
	BadCoords int
	// WrongSource is the # of rows dropped because the source column didn't
	// match the requested assay.
	WrongSource int
	// Kept is the # of records returned.
	Kept int
}

// Dropped returns the total # of rows that were discarded.
func (s LoadStats) Dropped() int { return s.ShortRows + s.BadCoords + s.WrongSource }

// Merge adds the field values of the two LoadStats objects and creates a new LoadStats.
func (s LoadStats) Merge(o LoadStats) LoadStats {
	s.Lines += o.Lines
	s.Header = s.Header || o.Header
	s.ShortRows += o.ShortRows
	s.BadCoords += o.BadCoords
	s.WrongSource += o.WrongSource
	s.Kept += o.Kept
	return s
}

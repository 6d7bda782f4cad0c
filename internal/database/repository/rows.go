package repository

// Crime is a reference row. Fine keeps whatever the sheet held: an integer,
// a text amount such as "1,200", or nil.
type Crime struct {
	ID   string
	Name string
	Fine any
}

// Preset is a named list of offenses in one delimited string.
type Preset struct {
	Name    string
	Members string
}

// Wanted is a persisted ledger row. Times are already formatted.
type Wanted struct {
	SubjectID string
	StartTime string
	EndTime   string
	Charges   string
	TotalFine int64
}

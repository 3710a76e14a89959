package config

// SeatingConfig controls the seat layout generated when a class is
// initialized for a session, and which gender the left block is
// reserved for.  All values have defaults matching the original
// deployment: 30 seats, 3 columns per row, left block for FEMALE.
// Changing LeftGender to a value with more than two categories would
// also require rethinking the fixed 50/50 layout split.
type SeatingConfig struct {
	TotalSeats int    // seats created per (class, session)
	RowWidth   int    // columns per row inside a side block
	LeftGender string // gender assigned to the LEFT partition
}

// LoadSeatingConfig reads environment variables to build a SeatingConfig.
// Defaults are used when variables are not set.
func LoadSeatingConfig() SeatingConfig {
	return SeatingConfig{
		TotalSeats: envInt("SEAT_TOTAL_PER_CLASS", 30),
		RowWidth:   envInt("SEAT_ROW_WIDTH", 3),
		LeftGender: envStr("SEAT_LEFT_GENDER", "FEMALE"),
	}
}

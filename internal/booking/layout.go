package booking

import "github.com/iliyamo/school-seat-booking/internal/model"

// Layout describes how a class room is laid out when its seats are
// first created.  TotalSeats is split evenly into two contiguous
// numbering ranges: seats 1..N/2 form the left block, the rest the
// right block.  RowWidth is the number of columns per row inside a
// block; row and column are derived from the seat's position within
// its block and carry no behavioral meaning.
type Layout struct {
	TotalSeats int // total seats per (class, session); default 30
	RowWidth   int // columns per row inside a side block; default 3
}

// DefaultLayout returns the layout the original deployment uses: 30
// seats, 15 per side, 3 columns per row.
func DefaultLayout() Layout {
	return Layout{TotalSeats: 30, RowWidth: 3}
}

// normalized guards against zero or negative configuration values.
func (l Layout) normalized() Layout {
	if l.TotalSeats < 2 {
		l.TotalSeats = 30
	}
	if l.RowWidth < 1 {
		l.RowWidth = 3
	}
	return l
}

// Generate builds the full seat batch for a (class, session) pair.
// The output is stable and reproducible: seat numbers run 1..N, the
// first half is LEFT and the second half RIGHT, and within a side the
// local index determines row and column.
func (l Layout) Generate(classID, sessionID, schoolID uint64) []model.Seat {
	l = l.normalized()
	half := l.TotalSeats / 2
	seats := make([]model.Seat, 0, l.TotalSeats)
	for n := 1; n <= l.TotalSeats; n++ {
		side := model.SideLeft
		local := n
		if n > half {
			side = model.SideRight
			local = n - half
		}
		seats = append(seats, model.Seat{
			ClassID:    classID,
			SessionID:  sessionID,
			SchoolID:   schoolID,
			SeatNumber: uint32(n),
			Side:       side,
			Row:        uint32((local-1)/l.RowWidth + 1),
			Col:        uint32((local-1)%l.RowWidth + 1),
		})
	}
	return seats
}

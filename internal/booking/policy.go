package booking

import (
	"strings"

	"github.com/iliyamo/school-seat-booking/internal/model"
)

// PartitionPolicy maps a student's gender attribute to the side of the
// room they are allowed to sit on.  It must be pure and deterministic;
// the engine calls it with the gender read from the stored student
// record.  The policy is pluggable so a future split into more than
// two categories only touches this file and the layout generation.
type PartitionPolicy func(gender string) model.Side

// GenderPartition returns the default policy: the designated gender is
// assigned the left block, every other value the right block.  The
// comparison is case- and whitespace-insensitive.
func GenderPartition(leftGender string) PartitionPolicy {
	want := strings.ToUpper(strings.TrimSpace(leftGender))
	return func(gender string) model.Side {
		if strings.ToUpper(strings.TrimSpace(gender)) == want {
			return model.SideLeft
		}
		return model.SideRight
	}
}

package db

import "time"

// Member represents a member directory record
type Member struct {
	ID   int    `db:"id"`
	Name string `db:"name"`
}

// Availability marks a member as eligible for a slot kind, e.g. "m1"
type Availability struct {
	MemberID int    `db:"member_id"`
	Slot     string `db:"slot"`
}

// Weight represents one member/role weight cell. Zero pins the member out of the role.
type Weight struct {
	MemberID int    `db:"member_id"`
	Role     string `db:"role"`
	Weight   int    `db:"weight"`
}

// Run represents a committed generation run
type Run struct {
	ID                  string    `db:"id"`
	Year                int       `db:"year"`
	Month               int       `db:"month"`
	Seed                int64     `db:"seed"`
	FillOrder           string    `db:"fill_order"`
	Swaps               int       `db:"swaps"`
	UnresolvedConflicts int       `db:"unresolved_conflicts"`
	CreatedAt           time.Time `db:"created_at"`
}

// RunAssignment represents one role position of a committed run
type RunAssignment struct {
	RunID    string `db:"run_id"`
	Date     string `db:"date"`
	Timeslot int    `db:"timeslot"`
	Role     string `db:"role"`
	MemberID int    `db:"member_id"`
}

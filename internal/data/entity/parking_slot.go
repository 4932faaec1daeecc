package entity

type SlotKind string

const (
	SlotKindResident SlotKind = "resident"
	SlotKindVisitor  SlotKind = "visitor"
)

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "available"
	SlotStatusReserved  SlotStatus = "reserved"
	SlotStatusOccupied  SlotStatus = "occupied"
)

type ParkingSlot struct {
	Base
	SlotNumber string     `db:"slot_number"` // R-001, V-01, etc. Immutable.
	Kind       SlotKind   `db:"kind"`
	Level      string     `db:"level"`
	Status     SlotStatus `db:"status"`

	// Set only while a resident slot is occupied.
	AssignedOccupant *string `db:"assigned_occupant"`

	// Set only while a visitor slot is reserved.
	ReservedBy    *string `db:"reserved_by"`
	ReservedDate  *string `db:"reserved_date"`
	ReservedStart *string `db:"reserved_start"`
	ReservedEnd   *string `db:"reserved_end"`
}

package domain

import "time"

// RoomSlot is where a decoration sits in the virtual room.
type RoomSlot string

const (
	SlotWall   RoomSlot = "wall"
	SlotFloor  RoomSlot = "floor"
	SlotDesk   RoomSlot = "desk"
	SlotShelf  RoomSlot = "shelf"
	SlotWindow RoomSlot = "window"
	SlotPet    RoomSlot = "pet"
)

// DecorationDef is one purchasable decoration in the fixed catalog.
type DecorationDef struct {
	Key   string   `json:"key"`
	Title string   `json:"title"`
	Slot  RoomSlot `json:"slot"`
	Icon  string   `json:"icon"`
	Cost  int64    `json:"cost"`
}

// RoomItem is a decoration a student owns. At most one item per slot is
// equipped at a time.
type RoomItem struct {
	StudentID   int64     `json:"student_id"`
	ItemKey     string    `json:"item_key"`
	Equipped    bool      `json:"equipped"`
	PurchasedAt time.Time `json:"purchased_at"`
}

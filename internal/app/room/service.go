// Package room implements the virtual-room decoration shop: a fixed
// catalog, coin purchases, and per-slot equipping.
package room

import (
	"fmt"
	"time"

	"github.com/readquest/readquest/internal/domain"
	"github.com/readquest/readquest/internal/infra/metrics"
	"github.com/readquest/readquest/internal/infra/sqlite"
)

// Catalog returns the fixed decoration catalog, display order.
func Catalog() []domain.DecorationDef {
	return catalog
}

// Lookup finds a decoration by key.
func Lookup(key string) (domain.DecorationDef, bool) {
	def, ok := catalogByKey[key]
	return def, ok
}

var catalog = []domain.DecorationDef{
	{Key: "poster_space", Title: "Space Poster", Slot: domain.SlotWall, Icon: "🪐", Cost: 150},
	{Key: "poster_dino", Title: "Dinosaur Poster", Slot: domain.SlotWall, Icon: "🦕", Cost: 150},
	{Key: "fairy_lights", Title: "Fairy Lights", Slot: domain.SlotWall, Icon: "✨", Cost: 300},
	{Key: "rug_round", Title: "Round Rug", Slot: domain.SlotFloor, Icon: "🟠", Cost: 200},
	{Key: "beanbag", Title: "Bean Bag Chair", Slot: domain.SlotFloor, Icon: "🛋️", Cost: 400},
	{Key: "lamp_lava", Title: "Lava Lamp", Slot: domain.SlotDesk, Icon: "🔮", Cost: 250},
	{Key: "globe", Title: "Spinning Globe", Slot: domain.SlotDesk, Icon: "🌍", Cost: 350},
	{Key: "bookends", Title: "Dragon Bookends", Slot: domain.SlotShelf, Icon: "🐉", Cost: 300},
	{Key: "trophy_shelf", Title: "Trophy Shelf", Slot: domain.SlotShelf, Icon: "🏆", Cost: 500},
	{Key: "curtains_star", Title: "Starry Curtains", Slot: domain.SlotWindow, Icon: "🌟", Cost: 275},
	{Key: "cat_sleepy", Title: "Sleepy Cat", Slot: domain.SlotPet, Icon: "🐱", Cost: 600},
	{Key: "owl_wise", Title: "Wise Owl", Slot: domain.SlotPet, Icon: "🦉", Cost: 600},
}

var catalogByKey = func() map[string]domain.DecorationDef {
	m := make(map[string]domain.DecorationDef, len(catalog))
	for _, def := range catalog {
		m[def.Key] = def
	}
	return m
}()

// Service manages student rooms.
type Service struct {
	db  *sqlite.DB
	now func() time.Time
}

// NewService creates a room service.
func NewService(db *sqlite.DB) *Service {
	return &Service{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// View is the room state served to the client: the catalog annotated with
// ownership plus the student's coin balance.
type View struct {
	Items []ItemView `json:"items"`
	Coins int64      `json:"coins"`
}

// ItemView is one catalog decoration with the student's ownership state.
type ItemView struct {
	domain.DecorationDef
	Owned    bool `json:"owned"`
	Equipped bool `json:"equipped"`
}

// Inventory returns the full room view for a student.
func (s *Service) Inventory(studentID int64) (*View, error) {
	items, err := s.db.ListRoomItems(studentID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	stats, err := s.db.StudentStats(studentID)
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}

	owned := make(map[string]domain.RoomItem, len(items))
	for _, it := range items {
		owned[it.ItemKey] = it
	}

	view := &View{Coins: stats.Coins, Items: make([]ItemView, 0, len(catalog))}
	for _, def := range catalog {
		iv := ItemView{DecorationDef: def}
		if it, ok := owned[def.Key]; ok {
			iv.Owned = true
			iv.Equipped = it.Equipped
		}
		view.Items = append(view.Items, iv)
	}
	return view, nil
}

// Purchase spends coins on a decoration. Atomic: the coin debit and the
// inventory insert commit together or not at all. The lifetime coin total
// is untouched; spending is not un-earning.
func (s *Service) Purchase(studentID int64, itemKey string) (*View, error) {
	def, ok := Lookup(itemKey)
	if !ok {
		return nil, domain.ErrItemNotFound
	}

	err := s.db.InTx(func(tx *sqlite.Tx) error {
		owns, err := tx.OwnsRoomItem(studentID, def.Key)
		if err != nil {
			return fmt.Errorf("check ownership: %w", err)
		}
		if owns {
			return domain.ErrItemAlreadyOwned
		}
		if err := tx.SpendCoins(studentID, def.Cost); err != nil {
			return err
		}
		if _, err := tx.InsertRoomItem(studentID, def.Key, s.now()); err != nil {
			return fmt.Errorf("add item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.CoinsSpent.Add(float64(def.Cost))
	return s.Inventory(studentID)
}

// Equip places an owned decoration into its slot, vacating whatever was
// equipped there. With equip=false it just unequips the item.
func (s *Service) Equip(studentID int64, itemKey string, equip bool) (*View, error) {
	def, ok := Lookup(itemKey)
	if !ok {
		return nil, domain.ErrItemNotFound
	}

	err := s.db.InTx(func(tx *sqlite.Tx) error {
		owns, err := tx.OwnsRoomItem(studentID, def.Key)
		if err != nil {
			return fmt.Errorf("check ownership: %w", err)
		}
		if !owns {
			return domain.ErrItemNotOwned
		}
		if equip {
			// One item per slot.
			var slotKeys []string
			for _, other := range catalog {
				if other.Slot == def.Slot && other.Key != def.Key {
					slotKeys = append(slotKeys, other.Key)
				}
			}
			if err := tx.UnequipItems(studentID, slotKeys); err != nil {
				return fmt.Errorf("vacate slot: %w", err)
			}
		}
		return tx.SetEquipped(studentID, def.Key, equip)
	})
	if err != nil {
		return nil, err
	}
	return s.Inventory(studentID)
}

package depspec

// Slot is a package's parallel-installability classifier, with an
// optional sub-slot refining ABI compatibility (EAPI 5+).
type Slot struct {
	Slot    string
	Subslot string // empty when no sub-slot is declared
}

// NewSlot creates a slot with no sub-slot.
func NewSlot(slot string) Slot {
	return Slot{Slot: slot}
}

// NewSlotSubslot creates a slot/subslot pair.
func NewSlotSubslot(slot, subslot string) Slot {
	return Slot{Slot: slot, Subslot: subslot}
}

// String renders "slot" or "slot/subslot".
func (s Slot) String() string {
	if s.Subslot == "" {
		return s.Slot
	}
	return s.Slot + "/" + s.Subslot
}

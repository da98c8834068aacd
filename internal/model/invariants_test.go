package model

import "testing"

func TestCheckLocationExclusivityDetectsCollision(t *testing.T) {
	items := []InventoryItem{
		{InstanceID: 1, Location: InInventory("alice", 0)},
		{InstanceID: 2, Location: InInventory("alice", 0)},
	}
	if err := CheckLocationExclusivity(items); err == nil {
		t.Fatal("expected collision on duplicate (owner, inventory-slot)")
	}
}

func TestCheckLocationExclusivityAllowsDistinctSlots(t *testing.T) {
	items := []InventoryItem{
		{InstanceID: 1, Location: InInventory("alice", 0)},
		{InstanceID: 2, Location: InInventory("alice", 1)},
		{InstanceID: 3, Location: InInventory("bob", 0)},
		{InstanceID: 4, Location: InContainer(ContainerKindWoodenStorageBox, 9, 0)},
	}
	if err := CheckLocationExclusivity(items); err != nil {
		t.Fatalf("expected no collision, got %v", err)
	}
}

func TestCheckLocationExclusivityIgnoresDroppedAndUnknown(t *testing.T) {
	items := []InventoryItem{
		{InstanceID: 1, Location: Dropped(5)},
		{InstanceID: 2, Location: Dropped(5)},
		{InstanceID: 3, Location: Unknown()},
		{InstanceID: 4, Location: Unknown()},
	}
	if err := CheckLocationExclusivity(items); err != nil {
		t.Fatalf("dropped/unknown locations are not slot-addressed, got %v", err)
	}
}

func TestCheckQuantityBounds(t *testing.T) {
	lookup := func(id ItemDefID) (int, bool) {
		if id == 1 {
			return 100, true
		}
		return 1, false
	}
	ok := []InventoryItem{{InstanceID: 1, DefinitionID: 1, Quantity: 50}, {InstanceID: 2, DefinitionID: 2, Quantity: 1}}
	if err := CheckQuantityBounds(ok, lookup); err != nil {
		t.Fatalf("expected valid quantities to pass, got %v", err)
	}

	tooMany := []InventoryItem{{InstanceID: 1, DefinitionID: 1, Quantity: 101}}
	if err := CheckQuantityBounds(tooMany, lookup); err == nil {
		t.Fatal("expected quantity above stack size to fail")
	}

	nonStackableMulti := []InventoryItem{{InstanceID: 2, DefinitionID: 2, Quantity: 2}}
	if err := CheckQuantityBounds(nonStackableMulti, lookup); err == nil {
		t.Fatal("expected non-stackable item with quantity>1 to fail")
	}

	zero := []InventoryItem{{InstanceID: 3, DefinitionID: 2, Quantity: 0}}
	if err := CheckQuantityBounds(zero, lookup); err == nil {
		t.Fatal("expected zero quantity to fail")
	}
}

func TestCheckEquipMirror(t *testing.T) {
	equip := ActiveEquipment{Owner: "alice"}
	equip.ArmorSlots[ArmorSlotChest] = 7
	byInstance := map[InstanceID]InventoryItem{
		7: {InstanceID: 7, Location: Equipped("alice", ArmorSlotChest)},
	}
	if err := CheckEquipMirror(equip, byInstance); err != nil {
		t.Fatalf("expected matching mirror to pass, got %v", err)
	}

	byInstance[7] = InventoryItem{InstanceID: 7, Location: Equipped("alice", ArmorSlotHead)}
	if err := CheckEquipMirror(equip, byInstance); err == nil {
		t.Fatal("expected mismatched slot to fail")
	}
}

func TestCheckNoResurrection(t *testing.T) {
	alive := Player{Health: 50}
	if err := CheckNoResurrection(alive); err != nil {
		t.Fatalf("expected alive player to pass, got %v", err)
	}
	deadZero := Player{Dead: true, Health: 0}
	if err := CheckNoResurrection(deadZero); err != nil {
		t.Fatalf("expected dead player at 0 health to pass, got %v", err)
	}
	deadNonZero := Player{Dead: true, Health: 5}
	if err := CheckNoResurrection(deadNonZero); err == nil {
		t.Fatal("expected dead player with nonzero health to fail")
	}
}

func TestClampResistance(t *testing.T) {
	if got := ClampResistance(-0.1); got != 0 {
		t.Fatalf("expected negative resistance clamped to 0, got %v", got)
	}
	if got := ClampResistance(1.5); got != MaxResistance {
		t.Fatalf("expected resistance clamped to %v, got %v", MaxResistance, got)
	}
	if got := ClampResistance(0.5); got != 0.5 {
		t.Fatalf("expected in-range resistance unchanged, got %v", got)
	}
}

package crafting

import (
	"testing"

	"ashfall/internal/catalog"
	"ashfall/internal/db"
	"ashfall/internal/model"
	"ashfall/internal/store"
)

func newTestDB(t *testing.T) (*db.Database, *catalog.Catalog) {
	t.Helper()
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	return db.New(), cat
}

func mustItemByName(t *testing.T, cat *catalog.Catalog, name string) catalog.ItemDefinition {
	t.Helper()
	def, ok := cat.ItemByName(name)
	if !ok {
		t.Fatalf("catalog has no item named %q", name)
	}
	return def
}

func mustRecipeByName(t *testing.T, cat *catalog.Catalog, name string) model.RecipeID {
	t.Helper()
	recipe, ok := cat.RecipeByName(name)
	if !ok {
		t.Fatalf("catalog has no recipe named %q", name)
	}
	return recipe.ID
}

func putItem(d *db.Database, defID model.ItemDefID, qty int, loc model.ItemLocation) model.InstanceID {
	tx := store.Begin(d.Items)
	id, _ := store.Insert(tx, d.Items, func(id store.ID) model.InventoryItem {
		return model.InventoryItem{InstanceID: model.InstanceID(id), DefinitionID: defID, Quantity: qty, Location: loc}
	})
	tx.Commit()
	return model.InstanceID(id)
}

func TestStartRefusesWithoutIngredients(t *testing.T) {
	d, cat := newTestDB(t)
	recipeID := mustRecipeByName(t, cat, "craft_bandage")

	tx := Begin(d)
	_, err := Start(tx, d, cat, "alice", recipeID, 0)
	tx.Commit()
	if err == nil {
		t.Fatal("expected an error when the player has no wood")
	}
}

func TestStartConsumesIngredientsAndSequencesFIFO(t *testing.T) {
	d, cat := newTestDB(t)
	wood := mustItemByName(t, cat, "wood")
	recipeID := mustRecipeByName(t, cat, "craft_bandage")
	putItem(d, wood.ID, 30, model.InInventory("alice", 0))

	tx := Begin(d)
	firstID, err := Start(tx, d, cat, "alice", recipeID, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	secondID, err := Start(tx, d, cat, "alice", recipeID, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tx.Commit()

	tx = store.Begin(d.Queue)
	first, _ := store.Get(tx, d.Queue, store.ID(firstID))
	second, _ := store.Get(tx, d.Queue, store.ID(secondID))
	tx.Commit()
	if second.EndsAt <= first.EndsAt {
		t.Fatalf("expected the second job to finish after the first: first=%d second=%d", first.EndsAt, second.EndsAt)
	}

	tx = store.Begin(d.Items)
	remaining := 0
	store.Range(tx, d.Items, func(id store.ID, item model.InventoryItem) bool {
		if item.DefinitionID == wood.ID {
			remaining += item.Quantity
		}
		return true
	})
	tx.Commit()
	if remaining != 10 {
		t.Fatalf("expected 10 wood remaining after two 10-wood bandage jobs, got %d", remaining)
	}
}

func TestCancelItemRefundsIngredients(t *testing.T) {
	d, cat := newTestDB(t)
	wood := mustItemByName(t, cat, "wood")
	recipeID := mustRecipeByName(t, cat, "craft_bandage")
	putItem(d, wood.ID, 10, model.InInventory("alice", 0))

	tx := Begin(d)
	queueID, err := Start(tx, d, cat, "alice", recipeID, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tx.Commit()

	tx = Begin(d)
	if err := CancelItem(tx, d, cat, "alice", queueID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tx.Commit()

	tx = store.Begin(d.Items)
	remaining := 0
	store.Range(tx, d.Items, func(id store.ID, item model.InventoryItem) bool {
		if item.DefinitionID == wood.ID {
			remaining += item.Quantity
		}
		return true
	})
	tx.Commit()
	if remaining != 10 {
		t.Fatalf("expected wood fully refunded, got %d", remaining)
	}

	tx = store.Begin(d.Queue)
	_, stillQueued := store.Get(tx, d.Queue, store.ID(queueID))
	tx.Commit()
	if stillQueued {
		t.Fatal("expected cancelled job to be removed from the queue")
	}
}

// TestCancelAllRefundsExactTotal is spec.md §8 R4: cancel-all-crafting
// refunds ingredient quantities summing exactly to what
// start_crafting_multiple consumed.
func TestCancelAllRefundsExactTotal(t *testing.T) {
	d, cat := newTestDB(t)
	wood := mustItemByName(t, cat, "wood")
	recipeID := mustRecipeByName(t, cat, "craft_bandage")
	putItem(d, wood.ID, 100, model.InInventory("alice", 0))

	tx := Begin(d)
	_, err := StartMultiple(tx, d, cat, "alice", recipeID, 3, 0)
	tx.Commit()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tx = store.Begin(d.Items)
	afterStart := 0
	store.Range(tx, d.Items, func(id store.ID, item model.InventoryItem) bool {
		if item.DefinitionID == wood.ID {
			afterStart += item.Quantity
		}
		return true
	})
	tx.Commit()
	if afterStart != 70 {
		t.Fatalf("expected 70 wood remaining after 3x10 consumed, got %d", afterStart)
	}

	tx = Begin(d)
	CancelAll(tx, d, cat, "alice")
	tx.Commit()

	tx = store.Begin(d.Items)
	afterCancel := 0
	store.Range(tx, d.Items, func(id store.ID, item model.InventoryItem) bool {
		if item.DefinitionID == wood.ID {
			afterCancel += item.Quantity
		}
		return true
	})
	tx.Commit()
	if afterCancel != 100 {
		t.Fatalf("expected full 100 wood refunded, got %d", afterCancel)
	}

	tx = store.Begin(d.Queue)
	remainingJobs := 0
	store.Range(tx, d.Queue, func(id store.ID, row model.CraftingQueueItem) bool {
		remainingJobs++
		return true
	})
	tx.Commit()
	if remainingJobs != 0 {
		t.Fatalf("expected no jobs left queued, got %d", remainingJobs)
	}
}

func TestTickGrantsFinishedOutput(t *testing.T) {
	d, cat := newTestDB(t)
	wood := mustItemByName(t, cat, "wood")
	bandage := mustItemByName(t, cat, "bandage")
	recipeID := mustRecipeByName(t, cat, "craft_bandage")
	putItem(d, wood.ID, 10, model.InInventory("alice", 0))

	tx := Begin(d)
	_, err := Start(tx, d, cat, "alice", recipeID, 0)
	tx.Commit()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	recipe, _ := cat.Recipe(recipeID)
	tx = Begin(d)
	Tick(tx, d, cat, int64(recipe.CraftTimeSecs))
	tx.Commit()

	tx = store.Begin(d.Items)
	gotBandage := false
	store.Range(tx, d.Items, func(id store.ID, item model.InventoryItem) bool {
		if item.DefinitionID == bandage.ID && item.Location.Owner == model.PlayerID("alice") {
			gotBandage = true
		}
		return true
	})
	tx.Commit()
	if !gotBandage {
		t.Fatal("expected bandage to be granted once its finish time passed")
	}

	tx = store.Begin(d.Queue)
	remainingJobs := 0
	store.Range(tx, d.Queue, func(id store.ID, row model.CraftingQueueItem) bool {
		remainingJobs++
		return true
	})
	tx.Commit()
	if remainingJobs != 0 {
		t.Fatal("expected the finished job to be removed from the queue")
	}
}

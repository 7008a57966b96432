package aplsync

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/models"
)

func rec(code, name, brand string) ProductRecord {
	return ProductRecord{Code: code, Name: name, Brand: brand}
}

func TestReconcileClassification(t *testing.T) {
	ctx := context.Background()

	catalog := newMemCatalog()
	catalog.seed("tx", "00011110001", "Whole Milk", "DairyCo", true)
	catalog.seed("tx", "00011110002", "Skim Milk", "DairyCo", true)
	catalog.seed("tx", "00011110003", "Retired Cheese", "Fromage", false)

	changes := &memChanges{}
	differ := NewDiffer(catalog, changes)

	records := []ProductRecord{
		rec("00011110001", "Whole Milk", "DairyCo"),        // unchanged
		rec("00011110002", "Skim Milk 1%", "DairyCo"),      // updated
		rec("00011110003", "Retired Cheese", "Fromage"),    // reactivated
		rec("00011110004", "Wheat Bread", "GrainWorks"),    // added
	}

	result, err := differ.Reconcile(ctx, "job-1", "tx", records)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if result.Added != 1 {
		t.Errorf("Added = %d, want 1", result.Added)
	}
	if result.Updated != 1 {
		t.Errorf("Updated = %d, want 1", result.Updated)
	}
	if result.Unchanged != 1 {
		t.Errorf("Unchanged = %d, want 1", result.Unchanged)
	}
	if result.Reactivated != 1 {
		t.Errorf("Reactivated = %d, want 1", result.Reactivated)
	}
	if result.Removed != 0 {
		t.Errorf("Removed = %d, want 0", result.Removed)
	}
	if result.RowsProcessed != 4 {
		t.Errorf("RowsProcessed = %d, want 4", result.RowsProcessed)
	}

	if e, ok := catalog.byCode("00011110004"); !ok || !e.Active {
		t.Error("added entry missing or inactive")
	}
	if e, _ := catalog.byCode("00011110003"); !e.Active {
		t.Error("reactivated entry should be active")
	}
	if e, _ := catalog.byCode("00011110002"); e.Name != "Skim Milk 1%" {
		t.Errorf("updated entry name = %q, want %q", e.Name, "Skim Milk 1%")
	}
}

func TestReconcileRemovesMissingEntries(t *testing.T) {
	ctx := context.Background()

	catalog := newMemCatalog()
	catalog.seed("ca", "00022220001", "Eggs Dozen", "FarmFresh", true)
	catalog.seed("ca", "00022220002", "Orange Juice", "Citrus", true)

	changes := &memChanges{}
	differ := NewDiffer(catalog, changes)

	result, err := differ.Reconcile(ctx, "job-1", "ca", []ProductRecord{
		rec("00022220001", "Eggs Dozen", "FarmFresh"),
	})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if result.Removed != 1 {
		t.Fatalf("Removed = %d, want 1", result.Removed)
	}

	e, _ := catalog.byCode("00022220002")
	if e.Active {
		t.Error("removed entry should be inactive, not deleted")
	}
	if _, ok := catalog.byCode("00022220002"); !ok {
		t.Error("removed entry row should still exist")
	}

	removed := changes.byType("removed")
	if len(removed) != 1 || removed[0].Code != "00022220002" {
		t.Errorf("removed change rows = %+v, want one for 00022220002", removed)
	}
}

func TestReconcileUnchangedWritesNothing(t *testing.T) {
	ctx := context.Background()

	catalog := newMemCatalog()
	catalog.seed("tx", "00033330001", "Peanut Butter", "NutCo", true)

	changes := &memChanges{}
	differ := NewDiffer(catalog, changes)

	result, err := differ.Reconcile(ctx, "job-1", "tx", []ProductRecord{
		rec("00033330001", "Peanut Butter", "NutCo"),
	})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if result.Unchanged != 1 || result.Changed() != 0 {
		t.Errorf("result = %+v, want exactly one unchanged", result)
	}
	if len(changes.records) != 0 {
		t.Errorf("unchanged records must not produce change rows, got %d", len(changes.records))
	}
}

func TestReconcileFieldDiffs(t *testing.T) {
	ctx := context.Background()

	catalog := newMemCatalog()
	catalog.seed("tx", "00044440001", "Yogurt Cup", "OldBrand", true)

	changes := &memChanges{}
	differ := NewDiffer(catalog, changes)

	if _, err := differ.Reconcile(ctx, "job-1", "tx", []ProductRecord{
		rec("00044440001", "Yogurt Cup", "NewBrand"),
	}); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	updated := changes.byType("updated")
	if len(updated) != 1 {
		t.Fatalf("updated change rows = %d, want 1", len(updated))
	}

	var diffs map[string]models.FieldChange
	if err := json.Unmarshal(updated[0].FieldChanges, &diffs); err != nil {
		t.Fatalf("unmarshal field changes: %v", err)
	}

	if len(diffs) != 1 {
		t.Fatalf("field diffs = %v, want only brand", diffs)
	}
	if d := diffs[FieldBrand]; d.Old != "OldBrand" || d.New != "NewBrand" {
		t.Errorf("brand diff = %+v, want OldBrand -> NewBrand", d)
	}
}

func TestReconcileDuplicateCodesLastWins(t *testing.T) {
	ctx := context.Background()

	catalog := newMemCatalog()
	changes := &memChanges{}
	differ := NewDiffer(catalog, changes)

	result, err := differ.Reconcile(ctx, "job-1", "tx", []ProductRecord{
		rec("00055550001", "First Occurrence", "A"),
		rec("00055550001", "Second Occurrence", "B"),
	})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if result.Added != 1 {
		t.Fatalf("Added = %d, want 1 after dedupe", result.Added)
	}
	if e, _ := catalog.byCode("00055550001"); e.Name != "Second Occurrence" {
		t.Errorf("entry name = %q, want the later occurrence", e.Name)
	}
}

func TestReconcileOrderIndependence(t *testing.T) {
	ctx := context.Background()

	records := []ProductRecord{
		rec("00066660001", "Apple Sauce", "Orchard"),
		rec("00066660002", "Grape Juice", "Vine"),
		rec("00066660003", "Rice Cereal", "Grain"),
	}
	reversed := []ProductRecord{records[2], records[1], records[0]}

	for name, input := range map[string][]ProductRecord{"forward": records, "reversed": reversed} {
		t.Run(name, func(t *testing.T) {
			catalog := newMemCatalog()
			catalog.seed("tx", "00066660001", "Apple Sauce", "Orchard", true)
			catalog.seed("tx", "00066660004", "Gone Soon", "X", true)

			differ := NewDiffer(catalog, &memChanges{})
			result, err := differ.Reconcile(ctx, "job-1", "tx", input)
			if err != nil {
				t.Fatalf("Reconcile: %v", err)
			}

			if result.Added != 2 || result.Unchanged != 1 || result.Removed != 1 {
				t.Errorf("result = %+v, want 2 added, 1 unchanged, 1 removed regardless of order", result)
			}
		})
	}
}

func TestReconcileIdempotent(t *testing.T) {
	ctx := context.Background()

	catalog := newMemCatalog()
	differ := NewDiffer(catalog, &memChanges{})

	records := []ProductRecord{
		rec("00077770001", "Canned Beans", "Legume"),
		rec("00077770002", "Tortillas", "Masa"),
	}

	if _, err := differ.Reconcile(ctx, "job-1", "tx", records); err != nil {
		t.Fatalf("first Reconcile: %v", err)
	}

	second, err := differ.Reconcile(ctx, "job-2", "tx", records)
	if err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}

	if second.Changed() != 0 || second.Unchanged != 2 {
		t.Errorf("second run = %+v, want everything unchanged", second)
	}
}

func TestReconcilePerRecordErrorIsolation(t *testing.T) {
	ctx := context.Background()

	catalog := newMemCatalog()
	catalog.failCreate["00088880002"] = true

	differ := NewDiffer(catalog, &memChanges{})

	result, err := differ.Reconcile(ctx, "job-1", "tx", []ProductRecord{
		rec("00088880001", "Good Row", "A"),
		rec("00088880002", "Bad Row", "B"),
		rec("00088880003", "Also Good", "C"),
	})
	if err != nil {
		t.Fatalf("Reconcile must not fail on a single bad record: %v", err)
	}

	if result.Added != 2 {
		t.Errorf("Added = %d, want 2", result.Added)
	}
	if result.ValidationErrors != 1 {
		t.Errorf("ValidationErrors = %d, want 1", result.ValidationErrors)
	}
	if _, ok := catalog.byCode("00088880003"); !ok {
		t.Error("rows after the failing one must still be processed")
	}
}

package data

import "testing"

func TestCalculateMetadata(t *testing.T) {
	t.Run("no records yields empty metadata", func(t *testing.T) {
		metadata := CalculateMetadata(0, 1, 10)
		if metadata != (Metadata{}) {
			t.Errorf("expected empty metadata; got %+v", metadata)
		}
	})

	t.Run("last page rounds up", func(t *testing.T) {
		metadata := CalculateMetadata(101, 3, 10)
		if metadata.LastPage != 11 {
			t.Errorf("LastPage = %d; want 11", metadata.LastPage)
		}
		if metadata.CurrentPage != 3 || metadata.FirstPage != 1 || metadata.TotalRecords != 101 {
			t.Errorf("unexpected metadata: %+v", metadata)
		}
	})
}

func TestFiltersSort(t *testing.T) {
	f := Filters{Sort: "-created_at", SortSafeList: []string{"created_at", "-created_at"}}
	if got := f.SortColumn(); got != "created_at" {
		t.Errorf("SortColumn() = %q; want %q", got, "created_at")
	}
	if got := f.SortDirection(); got != "DESC" {
		t.Errorf("SortDirection() = %q; want %q", got, "DESC")
	}

	f.Sort = "created_at"
	if got := f.SortDirection(); got != "ASC" {
		t.Errorf("SortDirection() = %q; want %q", got, "ASC")
	}
}

func TestFiltersSortColumnPanicsOnUnsafeValue(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for a sort value outside the safe list")
		}
	}()
	f := Filters{Sort: "password; DROP TABLE users", SortSafeList: []string{"created_at"}}
	f.SortColumn()
}

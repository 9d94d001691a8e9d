package memory

import (
	"context"
	"testing"

	"saba/internal/export"
)

func TestStore_PushTable(t *testing.T) {
	s := New()
	ctx := context.Background()

	rows := [][]string{{"a", "1"}}
	if err := s.PushTable(ctx, export.Table{Name: "Plats", Header: []string{"Plat", "Prix"}, Rows: rows}); err != nil {
		t.Fatalf("PushTable: %v", err)
	}
	rows[0][0] = "changed"

	got, ok := s.Table("Plats")
	if !ok {
		t.Fatal("table not stored")
	}
	if got.Rows[0][0] != "a" {
		t.Errorf("stored rows alias the caller's slice: %v", got.Rows)
	}

	if err := s.PushTable(ctx, export.Table{Name: "Plats"}); err != nil {
		t.Fatalf("PushTable: %v", err)
	}
	got, _ = s.Table("Plats")
	if len(got.Rows) != 0 {
		t.Errorf("second push did not replace the table: %v", got.Rows)
	}
	if s.Pushes() != 2 {
		t.Errorf("Pushes = %d, want 2", s.Pushes())
	}
}

func TestStore_PushTableRequiresName(t *testing.T) {
	if err := New().PushTable(context.Background(), export.Table{}); err == nil {
		t.Fatal("expected error")
	}
}

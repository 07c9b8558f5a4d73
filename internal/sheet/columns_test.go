package sheet

import "testing"

func TestMapColumns_ExactHeaders(t *testing.T) {
	m := MapColumns([]string{"Barcode", "Name", "On Hand", "Reserved"})
	if m == nil {
		t.Fatal("expected mapping, got nil")
	}
	if m.Barcode != "Barcode" || m.Name != "Name" || m.OnHand != "On Hand" || m.Reserved != "Reserved" {
		t.Errorf("unexpected mapping: %+v", m)
	}
}

func TestMapColumns_FuzzyHeaders(t *testing.T) {
	m := MapColumns([]string{"bar code", "productname", "stock", "on hold"})
	if m == nil {
		t.Fatal("expected mapping, got nil")
	}
	if m.Barcode != "bar code" {
		t.Errorf("barcode = %q, want %q", m.Barcode, "bar code")
	}
	if m.Name != "productname" {
		t.Errorf("name = %q, want %q", m.Name, "productname")
	}
	if m.OnHand != "stock" {
		t.Errorf("onHand = %q, want %q", m.OnHand, "stock")
	}
	if m.Reserved != "on hold" {
		t.Errorf("reserved = %q, want %q", m.Reserved, "on hold")
	}
}

func TestMapColumns_UISuffix(t *testing.T) {
	m := MapColumns([]string{"SKU", "Item Name", "On Hand (not editable)"})
	if m == nil {
		t.Fatal("expected mapping, got nil")
	}
	if m.OnHand != "On Hand (not editable)" {
		t.Errorf("onHand = %q", m.OnHand)
	}
	if m.Reserved != "" {
		t.Errorf("reserved should be unmatched, got %q", m.Reserved)
	}
}

func TestMapColumns_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
	}{
		{"no barcode", []string{"Name", "On Hand", "Reserved"}},
		{"no name", []string{"Barcode", "On Hand"}},
		{"no on-hand", []string{"Barcode", "Name"}},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if m := MapColumns(tt.headers); m != nil {
				t.Errorf("expected nil mapping, got %+v", m)
			}
		})
	}
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Bar Code", "barcode"},
		{"bar_code", "barcode"},
		{"Bar-Code", "barcode"},
		{"On Hand (not editable)", "onhandnoteditable"},
		{"\uFEFFBarcode", "barcode"},
		{"Qty / Units", "qtyunits"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := normalizeHeader(tt.in); got != tt.want {
				t.Errorf("normalizeHeader(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

package geoip

import "testing"

func TestLookupDisabledWithoutDatabase(t *testing.T) {
	g := NewLookup()
	if err := g.Init(""); err != nil {
		t.Fatalf("Init with empty path: %v", err)
	}
	if g.IsEnabled() {
		t.Error("IsEnabled = true without a database")
	}
	if got := g.LookupCountry("8.8.8.8"); got != "" {
		t.Errorf("LookupCountry on disabled lookup = %q, want empty", got)
	}
}

func TestLookupMissingDatabaseFile(t *testing.T) {
	g := NewLookup()
	if err := g.Init("/nonexistent/GeoLite2-Country.mmdb"); err == nil {
		t.Error("Init with missing file succeeded, want error")
	}
	if g.IsEnabled() {
		t.Error("IsEnabled = true after failed Init")
	}
}

func TestLookupCountryLocalAddresses(t *testing.T) {
	g := NewLookup()
	_ = g.Init("")

	tests := []struct {
		ip   string
		want string
	}{
		{"127.0.0.1", "LOCAL"},
		{"::1", "LOCAL"},
		{"10.1.2.3", "LOCAL"},
		{"172.20.0.5", "LOCAL"},
		{"192.168.1.1", "LOCAL"},
		{"fe80::1", "LOCAL"},
		{"not-an-ip", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := g.LookupCountry(tt.ip); got != tt.want {
			t.Errorf("LookupCountry(%q) = %q, want %q", tt.ip, got, tt.want)
		}
	}
}

func TestReloadWithoutPath(t *testing.T) {
	g := NewLookup()
	_ = g.Init("")
	if err := g.Reload(); err != nil {
		t.Errorf("Reload on disabled lookup: %v", err)
	}
}

func TestCloseIdempotent(t *testing.T) {
	g := NewLookup()
	if err := g.Close(); err != nil {
		t.Errorf("Close on empty lookup: %v", err)
	}
	if err := g.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

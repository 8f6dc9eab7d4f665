package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPlasma(t *testing.T) {
	p := Plasma()
	if p.Name != "plasma" || len(p.Colors) != 11 {
		t.Fatalf("palette %q with %d colors", p.Name, len(p.Colors))
	}
	if diff := cmp.Diff(RGB{13, 8, 135}, p.Lookup(0)); diff != "" {
		t.Errorf("Lookup(0) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(RGB{240, 249, 33}, p.Lookup(1.5)); diff != "" {
		t.Errorf("Lookup(1.5) mismatch (-want +got):\n%s", diff)
	}
	// halfway between the first two entries
	if diff := cmp.Diff(RGB{39, 6, 146}, p.Lookup(0.05)); diff != "" {
		t.Errorf("Lookup(0.05) mismatch (-want +got):\n%s", diff)
	}
}

func TestParseGPL(t *testing.T) {
	p, err := ParseGPL(strings.NewReader("GIMP Palette\nName: two\n# c\n0 0 0 black\n255 255 255\nbad line\n"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(&Palette{Name: "two", Colors: []RGB{{0, 0, 0}, {255, 255, 255}}}, p); diff != "" {
		t.Errorf("palette mismatch (-want +got):\n%s", diff)
	}

	if _, err := ParseGPL(strings.NewReader("GIMP Palette\n")); err == nil {
		t.Error("empty palette accepted")
	}
}

func TestLoad(t *testing.T) {
	th, err := Load("")
	if err != nil || th.Palette.Name != "plasma" {
		t.Fatalf("Load(\"\") = %v, %v", th, err)
	}

	path := filepath.Join(t.TempDir(), "mono.gpl")
	if err := os.WriteFile(path, []byte("GIMP Palette\n10 20 30\n"), 0644); err != nil {
		t.Fatal(err)
	}
	th, err = Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if th.Accent() != "#0a141e" {
		t.Errorf("Accent = %v", th.Accent())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.gpl")); err == nil {
		t.Error("missing palette accepted")
	}
}

func TestRoleAccessors(t *testing.T) {
	th := Default()
	tests := []struct {
		name string
		got  string
		role float64
	}{
		{"BG", string(th.BG()), RoleBG},
		{"FG", string(th.FG()), RoleFG},
		{"Accent", string(th.Accent()), RoleAccent},
		{"Muted", string(th.Muted()), RoleMuted},
		{"Active", string(th.Active()), RoleActive},
		{"Cursor", string(th.Cursor()), RoleCursor},
		{"Warning", string(th.Warning()), RoleWarning},
		{"Success", string(th.Success()), RoleSuccess},
	}
	for _, tt := range tests {
		if want := string(th.Color(tt.role)); tt.got != want {
			t.Errorf("%s = %s, want %s", tt.name, tt.got, want)
		}
	}
}

package theming_test

import (
	"errors"
	"testing"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formsubmit/pkg/theming"
)

func tailwindManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "tailwind",
		Version: "1.0.0",
		Tokens: map[string]string{
			theming.TokenInvalidClass: "border-red-500",
			"brand":                   "#123456",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					theming.TokenInvalidClass: "border-red-300",
				},
			},
		},
	}
}

func TestInvalidClass_VariantOverridesBase(t *testing.T) {
	selector, err := theming.NewManifestSelector("tailwind", "", tailwindManifest())
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}

	cases := []struct {
		name, variant, want string
	}{
		{"", "", "border-red-500"},
		{"tailwind", "dark", "border-red-300"},
		{"tailwind", "unknown", "border-red-500"},
	}
	for _, tc := range cases {
		got, err := theming.InvalidClass(selector, tc.name, tc.variant)
		if err != nil {
			t.Fatalf("InvalidClass(%q, %q): %v", tc.name, tc.variant, err)
		}
		if got != tc.want {
			t.Errorf("InvalidClass(%q, %q) = %q, want %q", tc.name, tc.variant, got, tc.want)
		}
	}
}

func TestInvalidClass_Defaults(t *testing.T) {
	got, err := theming.InvalidClass(nil, "", "")
	if err != nil || got != theming.DefaultInvalidClass {
		t.Fatalf("nil selector: got %q, %v", got, err)
	}

	plain, err := theming.NewManifestSelector("plain", "", &theme.Manifest{Name: "plain"})
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}
	got, err = theming.InvalidClass(plain, "", "")
	if err != nil || got != theming.DefaultInvalidClass {
		t.Fatalf("manifest without token: got %q, %v", got, err)
	}

	if _, err := theming.InvalidClass(plain, "missing", ""); !errors.Is(err, theming.ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
}

func TestManifestSelector_Register(t *testing.T) {
	selector, err := theming.NewManifestSelector("", "")
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}
	if err := selector.Register(tailwindManifest()); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := selector.Register(tailwindManifest()); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := selector.Register(&theme.Manifest{}); err == nil {
		t.Fatalf("expected error for unnamed manifest")
	}
	if diff := cmp.Diff([]string{"tailwind"}, selector.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	selection, err := selector.Select("tailwind", "dark")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	want := map[string]string{
		theming.TokenInvalidClass: "border-red-300",
		"brand":                   "#123456",
	}
	if diff := cmp.Diff(want, theming.Tokens(selection)); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
}

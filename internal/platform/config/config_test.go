package config

import (
	"slices"
	"testing"
	"time"

	kit "dap/internal/platform/testkit"
)

func TestMustString(t *testing.T) {
	t.Setenv("SERVICE_PGSQL_DBURL", " postgres://db/dap ")

	pg := New().Prefix("SERVICE_").Prefix("PGSQL_")
	if got := pg.MustString("DBURL"); got != "postgres://db/dap" {
		t.Fatalf("MustString = %q", got)
	}
	kit.MustPanic(t, func() { _ = pg.MustString("MISSING") })
}

func TestMayGetters(t *testing.T) {
	t.Setenv("CATALOG_PAGE_MAX", "150")
	t.Setenv("CATALOG_ATOMIC_CHANGES", "true")
	t.Setenv("CATALOG_TIMEOUT", "750ms")
	t.Setenv("CATALOG_NAME", " catalog ")

	c := New().Prefix("CATALOG_")
	if got := c.MayInt("PAGE_MAX", 100); got != 150 {
		t.Fatalf("MayInt = %d", got)
	}
	if !c.MayBool("ATOMIC_CHANGES", false) {
		t.Fatal("MayBool should read true")
	}
	if got := c.MayDuration("TIMEOUT", time.Second); got != 750*time.Millisecond {
		t.Fatalf("MayDuration = %v", got)
	}
	if got := c.MayString("NAME", "x"); got != "catalog" {
		t.Fatalf("MayString = %q", got)
	}

	// unset keys fall back
	if c.MayInt("PAGE_DEFAULT", 25) != 25 || c.MayBool("NOPE", true) != true || c.MayString("NOPE", "d") != "d" {
		t.Fatal("defaults not applied")
	}
}

func TestMayGetters_MalformedFallsBack(t *testing.T) {
	t.Setenv("CHANGES_LIST_MAX", "lots")
	t.Setenv("CHANGES_VERBOSE", "sometimes")
	t.Setenv("CHANGES_GRACE", "10 parsecs")

	c := New().Prefix("CHANGES_")
	if got := c.MayInt("LIST_MAX", 200); got != 200 {
		t.Fatalf("MayInt = %d", got)
	}
	if got := c.MayBool("VERBOSE", false); got {
		t.Fatal("MayBool should fall back to false")
	}
	if got := c.MayDuration("GRACE", 5*time.Second); got != 5*time.Second {
		t.Fatalf("MayDuration = %v", got)
	}
}

func TestMayCSV(t *testing.T) {
	t.Setenv("CORE_API_CORS_ORIGINS", " https://a.example, ,https://b.example ,")
	t.Setenv("CORE_API_EMPTY_LIST", " , ,")

	c := New().Prefix("CORE_API_")
	want := []string{"https://a.example", "https://b.example"}
	if got := c.MayCSV("CORS_ORIGINS", nil); !slices.Equal(got, want) {
		t.Fatalf("MayCSV = %q", got)
	}
	def := []string{"*"}
	if got := c.MayCSV("EMPTY_LIST", def); !slices.Equal(got, def) {
		t.Fatalf("blank items only should give default, got %q", got)
	}
	if got := c.MayCSV("UNSET", def); !slices.Equal(got, def) {
		t.Fatalf("unset should give default, got %q", got)
	}
}

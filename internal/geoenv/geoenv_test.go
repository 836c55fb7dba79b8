package geoenv

import (
	"os"
	"testing"
)

func TestSetup_ClearsStaleVarsOnce(t *testing.T) {
	t.Setenv("PROJ_LIB", "/opt/stale/proj")
	t.Setenv("GDAL_DATA", "/opt/stale/gdal")

	Setup()
	if v, ok := os.LookupEnv("PROJ_LIB"); ok {
		t.Fatalf("PROJ_LIB still set to %q", v)
	}
	if v, ok := os.LookupEnv("GDAL_DATA"); ok {
		t.Fatalf("GDAL_DATA still set to %q", v)
	}

	// second call is a no-op and must not panic or reset anything
	t.Setenv("PROJ_LIB", "/opt/other")
	Setup()
	if _, ok := os.LookupEnv("PROJ_LIB"); !ok {
		t.Fatalf("Setup must be once-only; second call should not clear again")
	}
}

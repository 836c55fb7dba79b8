// Package geoenv performs one-time process environment setup for geospatial work.
package geoenv

import (
	"os"
	"sync"
)

// Native library search paths inherited from the host can point GDAL/PROJ
// tooling that post-processes our output at stale data directories. They are
// cleared once, before any geospatial call.
var staleVars = []string{
	"PROJ_LIB",
	"PROJ_DATA",
	"GDAL_DATA",
	"GDAL_DRIVER_PATH",
}

var once sync.Once

// Setup clears stale native-library environment variables. Idempotent; has
// no other side effects and is safe to call from any stage.
func Setup() {
	once.Do(func() {
		for _, k := range staleVars {
			_ = os.Unsetenv(k)
		}
	})
}

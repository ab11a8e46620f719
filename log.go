package mirror

import (
	"log"
	"sync/atomic"
)

// logger stays nil until SetLogger is called.
var logger atomic.Pointer[log.Logger]

// SetLogger sets where diagnostics such as ignored virtual targets are
// reported. Nothing is reported by default.
func SetLogger(lgr *log.Logger) {
	logger.Store(lgr)
}

func logf(format string, args ...any) {
	if lgr := logger.Load(); lgr != nil {
		lgr.Printf("[mirror] "+format, args...)
	}
}

// Package guard forces test mode before any application package reads
// the flag. Import it for side effects from test helpers.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("SALESCOPE_TEST_MODE") == "" {
			_ = os.Setenv("SALESCOPE_TEST_MODE", "1")
		}
	})
}

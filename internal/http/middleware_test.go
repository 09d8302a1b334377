package http

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestParamsMiddleware(t *testing.T) {
	original := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	t.Cleanup(func() { log.SetLevel(original) })

	serve := func(target string) (log.Level, bool) {
		var level log.Level
		var dryRun bool
		h := paramsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			level = log.FromContext(r.Context()).GetLevel()
			dryRun = isDryRunFromContext(r)
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
		return level, dryRun
	}

	t.Run("verbose raises only the request logger", func(t *testing.T) {
		level, dryRun := serve("/players?verbose=true")
		assert.Equal(t, log.DebugLevel, level)
		assert.False(t, dryRun)
		assert.Equal(t, log.InfoLevel, log.GetLevel())
	})

	t.Run("plain request keeps the default level", func(t *testing.T) {
		level, dryRun := serve("/players?dry_run=true")
		assert.Equal(t, log.InfoLevel, level)
		assert.True(t, dryRun)
	})

	t.Run("concurrent requests do not share levels", func(t *testing.T) {
		var wg sync.WaitGroup
		levels := make([]log.Level, 20)
		for i := range levels {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				target := "/health"
				if i%2 == 0 {
					target += "?verbose=true"
				}
				levels[i], _ = serve(target)
			}(i)
		}
		wg.Wait()

		for i, level := range levels {
			if i%2 == 0 {
				assert.Equal(t, log.DebugLevel, level, "request %d", i)
			} else {
				assert.Equal(t, log.InfoLevel, level, "request %d", i)
			}
		}
		assert.Equal(t, log.InfoLevel, log.GetLevel())
	})
}

package verify

import (
	"fmt"

	"github.com/lexhound/lexhound/internal/cache"
	"github.com/lexhound/lexhound/internal/model"
	"github.com/lexhound/lexhound/internal/util"
	"github.com/lexhound/lexhound/internal/worker"
)

// BuildChain assembles the ordered source chain named by cfg.Verify.Sources.
// store may be nil to run without response caching. Unknown source names are
// an error; the fallback source is skipped silently when no search URL is
// configured.
func BuildChain(cfg *model.Config, store cache.Store) ([]Source, error) {
	httpClient := util.NewHTTPClient(cfg.HTTP)
	limiter := worker.NewHostLimiter(cfg.Concurrency.RequestsPerSecond, cfg.Concurrency.VerifyWorkers)
	cl := NewCourtListenerClient(cfg.Verify, cfg.HTTP, httpClient, limiter, store, cfg.Cache.DiskTTL)

	var chain []Source
	for _, name := range cfg.Verify.Sources {
		switch name {
		case "courtlistener":
			chain = append(chain, cl.Structured())
		case "courtlistener-search":
			chain = append(chain, cl.Search())
		case "websearch":
			if cfg.Verify.FallbackSearchURL == "" {
				continue
			}
			robots := util.NewRobotsGate(cfg.HTTP.UserAgent, cfg.HTTP.Timeout)
			chain = append(chain, NewWebSearchSource(
				cfg.Verify.FallbackSearchURL,
				cfg.HTTP.UserAgent,
				httpClient,
				robots,
				limiter,
				store,
				cfg.Cache.DiskTTL,
				cfg.HTTP.MaxBodyBytes,
			))
		default:
			return nil, fmt.Errorf("unknown verification source %q", name)
		}
	}
	return chain, nil
}

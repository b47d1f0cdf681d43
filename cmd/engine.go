package cmd

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/seo-optimizer/insights/analyzer"
	"github.com/seo-optimizer/insights/config"
	"github.com/seo-optimizer/insights/live"
)

// newEngine builds the analyzer. Live collaborators are attached only when
// useLive is set and the configuration carries their credentials.
func newEngine(cfg *config.Config, logger *zap.Logger, observer analyzer.Observer, useLive bool) (*analyzer.Engine, error) {
	opts := []analyzer.Option{analyzer.WithLogger(logger), analyzer.WithObserver(observer)}
	if !useLive {
		return analyzer.New(opts...), nil
	}

	httpCfg := live.DefaultHTTPConfig()
	httpCfg.Timeout = cfg.LiveTimeout()
	client := live.NewHTTPClient(httpCfg)

	if cfg.LiveMeasurementEnabled() {
		ps, err := live.NewPageSpeedClient(live.PageSpeedConfig{
			Endpoint: cfg.PageSpeedEndpoint,
			APIKey:   cfg.PageSpeedAPIKey,
			Strategy: cfg.PageSpeedStrategy,
		}, client)
		if err != nil {
			return nil, err
		}
		opts = append(opts, analyzer.WithSiteMeasurer(ps))
	}

	switch cfg.SearchProvider {
	case "google":
		cs, err := live.NewCustomSearchClient(live.CustomSearchConfig{
			Endpoint: cfg.SearchEndpoint,
			APIKey:   cfg.SearchAPIKey,
			EngineID: cfg.SearchEngineID,
		}, client)
		if err != nil {
			return nil, err
		}
		opts = append(opts, analyzer.WithKeywordSearcher(cs))
	case "html":
		hcfg := live.DefaultHTMLSearchConfig()
		if cfg.SearchEndpoint != "" {
			hcfg.Endpoint = cfg.SearchEndpoint
		}
		hs, err := live.NewHTMLSearchClient(hcfg, client)
		if err != nil {
			return nil, err
		}
		opts = append(opts, analyzer.WithKeywordSearcher(hs))
	case "none":
	default:
		return nil, fmt.Errorf("unknown search provider %q", cfg.SearchProvider)
	}

	logger.Info("live collaborators",
		zap.Bool("measurement", cfg.LiveMeasurementEnabled()),
		zap.String("search", cfg.SearchProvider))
	return analyzer.New(opts...), nil
}

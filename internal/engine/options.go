package engine

// CallOption adjusts a single Valuate or batch call.
type CallOption func(*callConfig)

type callConfig struct {
	margin float64
}

// Margin sets the relative half-width of the price range for this call.
func Margin(m float64) CallOption {
	return func(c *callConfig) {
		c.margin = m
	}
}

// Confidence sets the price range from a confidence level in (0, 1]; 0.85
// yields a margin of 0.075.
func Confidence(c float64) CallOption {
	return Margin(MarginFromConfidence(c))
}

func (eng *Engine) callConfig(opts []CallOption) (callConfig, error) {
	cfg := callConfig{margin: eng.pricing.Margin}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := validateMargin(cfg.margin); err != nil {
		return callConfig{}, err
	}
	return cfg, nil
}

package config

// Default configuration values.
const (
	DefaultFuzzyThreshold = 80.0
	DefaultJoinTolerance  = 0.001
	DefaultCompareMode    = "OVERLAY"
	DefaultCompareGap     = 0.0
	DefaultOutput         = "text"
)

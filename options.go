package abicodec

// DefaultMaxLength is the default cap on any decoded length prefix
// (bytes, string, or slice element count).
const DefaultMaxLength = 1 << 24

// DecodeOption configures a decode operation.
type DecodeOption func(*decodeConfig)

// decodeConfig holds configuration for decoding.
type decodeConfig struct {
	maxLength   uint64
	lenientBool bool
}

// defaultDecodeConfig returns the default decode configuration.
func defaultDecodeConfig() *decodeConfig {
	return &decodeConfig{
		maxLength: DefaultMaxLength,
	}
}

func newDecodeConfig(opts []DecodeOption) *decodeConfig {
	cfg := defaultDecodeConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithMaxLength caps every length prefix read during decoding.
// Default is DefaultMaxLength. Zero means no cap beyond the input size.
func WithMaxLength(max uint64) DecodeOption {
	return func(c *decodeConfig) {
		c.maxLength = max
	}
}

// WithLenientBool accepts any non-zero word as true instead of rejecting
// everything other than 0 and 1.
func WithLenientBool() DecodeOption {
	return func(c *decodeConfig) {
		c.lenientBool = true
	}
}

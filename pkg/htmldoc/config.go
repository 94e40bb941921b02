package htmldoc

// DetectionThresholds tunes HybridSectionDetector's confidence scoring
// (§4.5, §4.5.1). Grounded in original_source/edgar/documents/config.py's
// DetectionThresholds dataclass. detectSections reads MinConfidence,
// ThresholdsByForm and EnableCrossValidation; CrossValidationBoost,
// DisagreementPenalty and BoundaryOverlapPenalty are carried through
// ConfigRegistry overrides but are not read by the detector.
type DetectionThresholds struct {
	MinConfidence          float64
	EnableCrossValidation  bool
	CrossValidationBoost   float64 // [ADDED]
	DisagreementPenalty    float64 // [ADDED]
	BoundaryOverlapPenalty float64 // [ADDED]
	ThresholdsByForm       map[string]float64
}

func defaultThresholds() DetectionThresholds {
	return DetectionThresholds{
		MinConfidence:          0.6,
		EnableCrossValidation:  false,
		CrossValidationBoost:   1.2,
		DisagreementPenalty:    0.8,
		BoundaryOverlapPenalty: 0.9,
		ThresholdsByForm:       map[string]float64{},
	}
}

// ParserConfig holds every recognized option from §6. Built with plain
// struct literals and preset constructors (ForPerformance/ForAccuracy),
// mirroring the teacher's no-DSL, no-viper configuration style.
type ParserConfig struct {
	MaxDocumentSize     int
	StreamingThreshold  int
	CacheSize           int
	Form                string
	PreserveWhitespace  bool
	NormalizeText       bool
	ExtractXBRL         bool
	ExtractStyles       bool
	ExtractLinks        bool
	ExtractImages       bool
	DetectSections      bool
	EagerSectionExtraction bool // [ADDED]
	DetectionThresholds DetectionThresholds
	HeaderDetectionThreshold float64
	MinTextLength       int
	StrictMode          bool
}

const (
	defaultMaxDocumentSize    = 100 * 1024 * 1024
	defaultStreamingThreshold = 10 * 1024 * 1024
	defaultCacheSize          = 1000
)

// DefaultConfig returns the baseline configuration every field default
// in §6 describes.
func DefaultConfig() *ParserConfig {
	return &ParserConfig{
		MaxDocumentSize:          defaultMaxDocumentSize,
		StreamingThreshold:       defaultStreamingThreshold,
		CacheSize:                defaultCacheSize,
		NormalizeText:            true,
		ExtractXBRL:              true,
		ExtractStyles:            true,
		ExtractLinks:             true,
		ExtractImages:            true,
		DetectSections:           true,
		DetectionThresholds:      defaultThresholds(),
		HeaderDetectionThreshold: 0.6,
		MinTextLength:            1,
	}
}

// ForPerformance disables XBRL extraction, clears the ExtractStyles
// flag and raises the style cache size, skipping eager section work —
// matches the original's for_performance() preset. The tree builders
// do not read ExtractStyles, so inline styles are still interned.
func ForPerformance() *ParserConfig {
	c := DefaultConfig()
	c.ExtractStyles = false
	c.ExtractXBRL = false
	c.CacheSize = 5000
	c.EagerSectionExtraction = false
	return c
}

// ForAccuracy turns every extraction feature on and runs section
// detection eagerly, trading throughput for completeness — matches the
// original's for_accuracy() preset.
func ForAccuracy() *ParserConfig {
	c := DefaultConfig()
	c.StrictMode = true
	c.ExtractStyles = true
	c.ExtractXBRL = true
	c.DetectSections = true
	c.EagerSectionExtraction = true
	c.DetectionThresholds.EnableCrossValidation = true
	return c
}

// Validate rejects a non-positive MaxDocumentSize and out-of-range
// thresholds at construction time, never mid-parse (§7 configuration
// errors). Form is not checked: any form string is accepted.
func (c *ParserConfig) Validate() error {
	if c.MaxDocumentSize <= 0 {
		return &ConfigError{Message: "max_document_size must be positive"}
	}
	if c.DetectionThresholds.MinConfidence < 0 || c.DetectionThresholds.MinConfidence > 1 {
		return &ConfigError{Message: "detection_thresholds.min_confidence must be within [0,1]"}
	}
	if c.HeaderDetectionThreshold < 0 || c.HeaderDetectionThreshold > 1 {
		return &ConfigError{Message: "header_detection_threshold must be within [0,1]"}
	}
	return nil
}

// thresholdFor returns the per-form override if ConfigRegistry has one,
// otherwise the global min_confidence.
func (c *ParserConfig) thresholdFor(form string) float64 {
	if v, ok := c.DetectionThresholds.ThresholdsByForm[form]; ok {
		return v
	}
	return c.DetectionThresholds.MinConfidence
}

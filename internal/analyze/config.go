package analyze

import "rapihcli/pkg/contracts/domain"

// Detection thresholds. These are deliberate heuristics, named here instead
// of living as literals inside the passes.
const (
	// DefaultEmptyRatioThreshold flags a column when more than this fraction
	// of its cells is empty (and the column is not fully empty).
	DefaultEmptyRatioThreshold = 0.20

	// StrictEmptyRatioThreshold replaces the default in strict mode.
	StrictEmptyRatioThreshold = 0.10

	// DefaultSimilarityThreshold is the per-column normalized Levenshtein
	// similarity a pair must exceed on every compared column to count as a
	// fuzzy duplicate.
	DefaultSimilarityThreshold = 0.85

	// DefaultIQRMultiplier sets the outlier fences Q1-k*IQR and Q3+k*IQR.
	DefaultIQRMultiplier = 1.5

	// MinOutlierSampleSize is the minimum non-missing value count before the
	// IQR pass runs on a column.
	MinOutlierSampleSize = 10

	// DefaultCalcTolerance is the relative tolerance for qty*price==total and
	// PPN checks; DefaultCalcAbsTolerance is the absolute floor.
	DefaultCalcTolerance    = 0.01
	DefaultCalcAbsTolerance = 1.0

	// MaxFuzzyPairs caps the pairwise fuzzy-duplicate scan. This bounds the
	// O(n^2) cost on large inputs; it is resource protection, not
	// correctness.
	MaxFuzzyPairs = 50

	// MaxDuplicateDetails caps the duplicate-pair samples attached to the
	// exact-duplicate issue.
	MaxDuplicateDetails = 10

	// MaxSequenceGaps caps how many gaps a sequence column may report before
	// the pass assumes the column is not sequential and stays quiet.
	MaxSequenceGaps = 10

	// MinSequenceGapSize is the smallest run of missing values worth
	// reporting.
	MinSequenceGapSize = 10

	// CasePatternThreshold and MixedCaseTolerance drive the text-case pass:
	// a column is inconsistent when no single case style covers at least
	// CasePatternThreshold of its values and mixed case covers less than
	// MixedCaseTolerance.
	CasePatternThreshold = 0.80
	MixedCaseTolerance   = 0.50

	// VATRate is the Indonesian PPN rate applied to DPP amounts.
	VATRate = 0.11
)

// Config carries the tunable thresholds of one analyzer instance.
type Config struct {
	EmptyRatioThreshold float64
	SimilarityThreshold float64
	IQRMultiplier       float64
	CalcTolerance       float64
	CalcAbsTolerance    float64
	MaxFuzzyPairs       int
	VATRate             float64

	// FutureDateSeverity is the severity of future-date findings; strict
	// mode promotes them to critical.
	FutureDateSeverity domain.Severity

	// RunLogicPasses toggles the calculation/sequence and tax passes.
	RunLogicPasses bool
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		EmptyRatioThreshold: DefaultEmptyRatioThreshold,
		SimilarityThreshold: DefaultSimilarityThreshold,
		IQRMultiplier:       DefaultIQRMultiplier,
		CalcTolerance:       DefaultCalcTolerance,
		CalcAbsTolerance:    DefaultCalcAbsTolerance,
		MaxFuzzyPairs:       MaxFuzzyPairs,
		VATRate:             VATRate,
		FutureDateSeverity:  domain.SeverityNeedsReview,
		RunLogicPasses:      true,
	}
}

// forMode adapts the config to an analysis mode. auto keeps the defaults;
// strict tightens the empty-cell threshold and promotes future-date
// findings; finance and sales force the logic/tax passes on; data skips
// them.
func (c Config) forMode(mode domain.AnalysisMode) Config {
	switch mode {
	case domain.ModeStrict:
		c.EmptyRatioThreshold = StrictEmptyRatioThreshold
		c.FutureDateSeverity = domain.SeverityCritical
	case domain.ModeFinance, domain.ModeSales:
		c.RunLogicPasses = true
	case domain.ModeData:
		c.RunLogicPasses = false
	}
	return c
}

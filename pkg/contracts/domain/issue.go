package domain

// Severity classifies how an issue should be handled.
type Severity string

const (
	// SeverityAutoFix marks issues the cleaner can repair deterministically
	// with no information loss.
	SeverityAutoFix Severity = "AUTO_FIX"
	// SeverityNeedsReview marks ambiguous findings that need human judgment.
	SeverityNeedsReview Severity = "NEEDS_REVIEW"
	// SeverityCritical marks invalid data that cannot be auto-repaired.
	SeverityCritical Severity = "CRITICAL"
)

// IssueType identifies a detection rule.
type IssueType string

const (
	IssueEmptyHeader          IssueType = "EMPTY_HEADER"
	IssueDuplicateHeader      IssueType = "DUPLICATE_HEADER"
	IssueEmptyRows            IssueType = "EMPTY_ROWS"
	IssueInconsistentDates    IssueType = "INCONSISTENT_DATE_FORMAT"
	IssueFutureDate           IssueType = "FUTURE_DATE"
	IssueNumberStoredAsText   IssueType = "NUMBER_STORED_AS_TEXT"
	IssueUnformattedCurrency  IssueType = "UNFORMATTED_CURRENCY"
	IssueInvalidPhone         IssueType = "INVALID_PHONE"
	IssueUnformattedPhone     IssueType = "UNFORMATTED_PHONE"
	IssueFixableEmail         IssueType = "FIXABLE_EMAIL"
	IssueInvalidEmail         IssueType = "INVALID_EMAIL"
	IssueMixedCaseEmail       IssueType = "MIXED_CASE_EMAIL"
	IssueWhitespace           IssueType = "WHITESPACE_ISSUE"
	IssueInconsistentCase     IssueType = "INCONSISTENT_TEXT_CASE"
	IssueHighEmptyRatio       IssueType = "HIGH_EMPTY_RATIO"
	IssueDuplicateRows        IssueType = "DUPLICATE_ROWS"
	IssueFuzzyDuplicates      IssueType = "FUZZY_DUPLICATES"
	IssueStatisticalOutlier   IssueType = "STATISTICAL_OUTLIER"
	IssueNegativeValue        IssueType = "NEGATIVE_VALUE"
	IssueCalculationError     IssueType = "CALCULATION_ERROR"
	IssueSequenceGap          IssueType = "SEQUENCE_GAP"
	IssueInvalidNIK           IssueType = "INVALID_NIK"
	IssueInvalidNPWP          IssueType = "INVALID_NPWP"
	IssueUnformattedNPWP      IssueType = "UNFORMATTED_NPWP"
	IssueTaxCalculationError  IssueType = "TAX_CALCULATION_ERROR"
)

// Issue is one detected data-quality defect. Issues are immutable once
// created; the issue list is the sole hand-off contract between the analyzer
// and the cleaner.
type Issue struct {
	ID           string                 `json:"id"`
	Type         IssueType              `json:"type"`
	Severity     Severity               `json:"severity"`
	Row          int                    `json:"row,omitempty"`
	Column       string                 `json:"column,omitempty"`
	Value        string                 `json:"value,omitempty"`
	Message      string                 `json:"message"`
	Suggestion   string                 `json:"suggestion,omitempty"`
	AutoFix      bool                   `json:"auto_fix"`
	AffectedRows int                    `json:"affected_rows,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
	FixInfo      map[string]interface{} `json:"fix_info,omitempty"`
}

package overlay

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ErrorCategory classifies errors for tracking and alerting.
type ErrorCategory int

const (
	// ErrorCategoryUnknown matches errors without a more specific category.
	ErrorCategoryUnknown ErrorCategory = iota
	// ErrorCategoryConfig is for configuration parsing and validation errors.
	ErrorCategoryConfig
	// ErrorCategoryWindow is for failed native window calls.
	ErrorCategoryWindow
	// ErrorCategoryGeometry is for failed window bounds queries.
	ErrorCategoryGeometry
	// ErrorCategoryScene is for scene build and reload errors.
	ErrorCategoryScene
	// ErrorCategoryRender is for host loop and drawing errors.
	ErrorCategoryRender

	numErrorCategories
)

var errorCategoryNames = [...]string{
	ErrorCategoryUnknown:  "unknown",
	ErrorCategoryConfig:   "config",
	ErrorCategoryWindow:   "window",
	ErrorCategoryGeometry: "geometry",
	ErrorCategoryScene:    "scene",
	ErrorCategoryRender:   "render",
}

// String returns the category name.
func (c ErrorCategory) String() string {
	if c >= 0 && c < numErrorCategories {
		return errorCategoryNames[c]
	}
	return "unknown"
}

// ErrorSeverity is the urgency of an error.
type ErrorSeverity int

const (
	// SeverityInfo needs no action.
	SeverityInfo ErrorSeverity = iota
	// SeverityWarning is a degraded but working state, such as a failed
	// best-effort window call.
	SeverityWarning
	// SeverityError affects functionality.
	SeverityError
	// SeverityCritical stops the overlay.
	SeverityCritical
)

// String returns the severity name.
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// CategorizedError wraps an error with tracking metadata.
type CategorizedError struct {
	Err       error
	Category  ErrorCategory
	Severity  ErrorSeverity
	Timestamp time.Time
	// Context holds extra key-value details such as the failed operation.
	Context map[string]string
}

// NewCategorizedError creates a CategorizedError stamped with the current
// time.
func NewCategorizedError(err error, category ErrorCategory, severity ErrorSeverity) *CategorizedError {
	return &CategorizedError{
		Err:       err,
		Category:  category,
		Severity:  severity,
		Timestamp: time.Now(),
	}
}

// Error implements the error interface.
func (e *CategorizedError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%s/%s] (no error)", e.Severity, e.Category)
	}
	return fmt.Sprintf("[%s/%s] %v", e.Severity, e.Category, e.Err)
}

// Unwrap returns the underlying error.
func (e *CategorizedError) Unwrap() error { return e.Err }

// WithContext adds a key-value pair and returns e.
func (e *CategorizedError) WithContext(key, value string) *CategorizedError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// AlertCondition fires when Threshold matching errors occur within Window.
// ErrorCategoryUnknown matches every category.
type AlertCondition struct {
	Category    ErrorCategory
	MinSeverity ErrorSeverity
	Threshold   int
	Window      time.Duration
}

func (c AlertCondition) matches(e CategorizedError) bool {
	if c.Category != ErrorCategoryUnknown && e.Category != c.Category {
		return false
	}
	return e.Severity >= c.MinSeverity
}

// AlertHandler receives a fired condition, the matching error count and up
// to ten of the matching errors. It runs on its own goroutine.
type AlertHandler func(condition AlertCondition, count int, recent []CategorizedError)

// ErrorTrackerConfig configures an ErrorTracker.
type ErrorTrackerConfig struct {
	// MaxErrors bounds the retained history (default 1000).
	MaxErrors int
	// RetentionTime drops older errors (default 1 hour).
	RetentionTime time.Duration
	// AlertCooldown is the minimum gap between alerts for one condition
	// (default 5 minutes).
	AlertCooldown time.Duration
}

// DefaultErrorTrackerConfig returns the default tracker settings.
func DefaultErrorTrackerConfig() ErrorTrackerConfig {
	return ErrorTrackerConfig{
		MaxErrors:     1000,
		RetentionTime: time.Hour,
		AlertCooldown: 5 * time.Minute,
	}
}

// ErrorTracker keeps a bounded, time-limited history of errors with
// lifetime per-category counters, and fires alerts. Safe for concurrent
// use.
type ErrorTracker struct {
	mu         sync.RWMutex
	cfg        ErrorTrackerConfig
	errors     []CategorizedError
	conditions []AlertCondition
	handlers   []AlertHandler
	lastAlert  map[int]time.Time

	totals [numErrorCategories]atomic.Int64
}

// NewErrorTracker creates an ErrorTracker. Zero fields of cfg take their
// defaults.
func NewErrorTracker(cfg ErrorTrackerConfig) *ErrorTracker {
	def := DefaultErrorTrackerConfig()
	if cfg.MaxErrors <= 0 {
		cfg.MaxErrors = def.MaxErrors
	}
	if cfg.RetentionTime <= 0 {
		cfg.RetentionTime = def.RetentionTime
	}
	if cfg.AlertCooldown <= 0 {
		cfg.AlertCooldown = def.AlertCooldown
	}
	return &ErrorTracker{cfg: cfg, lastAlert: make(map[int]time.Time)}
}

// AddCondition registers an alert condition.
func (t *ErrorTracker) AddCondition(cond AlertCondition) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.conditions = append(t.conditions, cond)
}

// SetAlertHandler adds a handler called for every fired condition.
func (t *ErrorTracker) SetAlertHandler(handler AlertHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers = append(t.handlers, handler)
}

// Record stores err and evaluates the alert conditions.
func (t *ErrorTracker) Record(err *CategorizedError) {
	if err == nil {
		return
	}
	if err.Category >= 0 && err.Category < numErrorCategories {
		t.totals[err.Category].Add(1)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.errors = append(t.errors, *err)
	if over := len(t.errors) - t.cfg.MaxErrors; over > 0 {
		t.errors = t.errors[over:]
	}
	t.pruneLocked(time.Now())

	for i, cond := range t.conditions {
		t.evaluateLocked(i, cond)
	}
}

func (t *ErrorTracker) pruneLocked(now time.Time) {
	cutoff := now.Add(-t.cfg.RetentionTime)
	i := 0
	for i < len(t.errors) && !t.errors[i].Timestamp.After(cutoff) {
		i++
	}
	t.errors = t.errors[i:]
}

func (t *ErrorTracker) evaluateLocked(index int, cond AlertCondition) {
	now := time.Now()
	if last, ok := t.lastAlert[index]; ok && now.Sub(last) < t.cfg.AlertCooldown {
		return
	}

	cutoff := now.Add(-cond.Window)
	count := 0
	var recent []CategorizedError
	for _, e := range t.errors {
		if e.Timestamp.Before(cutoff) || !cond.matches(e) {
			continue
		}
		count++
		if len(recent) < 10 {
			recent = append(recent, e)
		}
	}
	if count < cond.Threshold {
		return
	}

	t.lastAlert[index] = now
	for _, h := range t.handlers {
		go func(h AlertHandler) {
			defer func() { _ = recover() }()
			h(cond, count, recent)
		}(h)
	}
}

// ErrorRate returns matching errors per second over window. A category of
// ErrorCategoryUnknown counts every error.
func (t *ErrorTracker) ErrorRate(category ErrorCategory, window time.Duration) float64 {
	if window <= 0 {
		return 0
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	cutoff := time.Now().Add(-window)
	count := 0
	for _, e := range t.errors {
		if e.Timestamp.After(cutoff) && (category == ErrorCategoryUnknown || e.Category == category) {
			count++
		}
	}
	return float64(count) / window.Seconds()
}

// RecentErrors returns up to limit of the newest retained errors, oldest
// first.
func (t *ErrorTracker) RecentErrors(limit int) []CategorizedError {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if limit <= 0 || len(t.errors) == 0 {
		return nil
	}
	start := len(t.errors) - limit
	if start < 0 {
		start = 0
	}
	return append([]CategorizedError(nil), t.errors[start:]...)
}

// ErrorStats summarizes the tracker.
type ErrorStats struct {
	// Retained is the number of errors in the current history.
	Retained int
	// BySeverity counts retained errors per severity.
	BySeverity map[ErrorSeverity]int
	// Totals counts every recorded error per category since creation.
	Totals map[ErrorCategory]int64
}

// Stats returns a snapshot of the tracker.
func (t *ErrorTracker) Stats() ErrorStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := ErrorStats{
		Retained:   len(t.errors),
		BySeverity: make(map[ErrorSeverity]int),
		Totals:     make(map[ErrorCategory]int64),
	}
	for _, e := range t.errors {
		stats.BySeverity[e.Severity]++
	}
	for c := ErrorCategory(0); c < numErrorCategories; c++ {
		if n := t.totals[c].Load(); n > 0 {
			stats.Totals[c] = n
		}
	}
	return stats
}

// Clear drops the retained history and alert cooldowns. Lifetime totals
// are kept.
func (t *ErrorTracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errors = nil
	t.lastAlert = make(map[int]time.Time)
}

var (
	defaultErrorTracker     *ErrorTracker
	defaultErrorTrackerOnce sync.Once
)

// DefaultErrorTracker returns the process-wide tracker used when
// Options.ErrorTracker is nil.
func DefaultErrorTracker() *ErrorTracker {
	defaultErrorTrackerOnce.Do(func() {
		defaultErrorTracker = NewErrorTracker(DefaultErrorTrackerConfig())
	})
	return defaultErrorTracker
}

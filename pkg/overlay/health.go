package overlay

import "time"

// HealthStatus is the health of the overlay or one of its components.
type HealthStatus string

const (
	// HealthOK indicates the component is functioning normally.
	HealthOK HealthStatus = "ok"
	// HealthDegraded indicates partial functionality.
	HealthDegraded HealthStatus = "degraded"
	// HealthUnhealthy indicates the component is not functioning.
	HealthUnhealthy HealthStatus = "unhealthy"
)

// HealthCheck is the result of Overlay.Health.
type HealthCheck struct {
	Status     HealthStatus
	Timestamp  time.Time
	Uptime     time.Duration
	Components map[string]ComponentHealth
	Message    string
}

// ComponentHealth is the health of one component: "window", "scene" or
// "errors".
type ComponentHealth struct {
	Status  HealthStatus
	Message string
}

// IsHealthy reports whether the overall status is HealthOK.
func (h HealthCheck) IsHealthy() bool { return h.Status == HealthOK }

// IsDegraded reports whether the overall status is HealthDegraded.
func (h HealthCheck) IsDegraded() bool { return h.Status == HealthDegraded }

// IsUnhealthy reports whether the overall status is HealthUnhealthy.
func (h HealthCheck) IsUnhealthy() bool { return h.Status == HealthUnhealthy }

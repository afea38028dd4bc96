package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks across the cache store, the platform
// APIs, and the optional narrative provider.
type Service struct {
	cache    CachePinger
	sources  []SourceChecker
	narrator NarratorChecker
}

// New creates a Service. narrator can be nil.
func New(cache CachePinger, sources []SourceChecker, narrator NarratorChecker) *Service {
	return &Service{cache: cache, sources: sources, narrator: narrator}
}

// Check runs health checks against all components. A failing component
// degrades the report; the service itself stays up.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	checks["cache"] = resultOf(s.cache.Ping(ctx))

	for _, src := range s.sources {
		checks[string(src.Source())] = resultOf(src.HealthCheck(ctx))
	}

	if s.narrator != nil {
		checks["narrator"] = resultOf(s.narrator.HealthCheck(ctx))
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func resultOf(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}

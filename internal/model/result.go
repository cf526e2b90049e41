package model

import "time"

// SourceErrorKind classifies why a source produced no value.
type SourceErrorKind string

const (
	// SourceTimeout means the source did not respond before the fetch deadline.
	SourceTimeout SourceErrorKind = "timeout"
	// SourceError means the source failed for any other reason.
	SourceError SourceErrorKind = "error"
)

// SourceResult is one source's contribution to a query. Exactly one result
// exists per consulted source, whether it succeeded or not.
type SourceResult struct {
	SourceID          string          `json:"source_id"`
	Value             string          `json:"value,omitempty"`
	EvidenceSnippets  []string        `json:"evidence_snippets,omitempty"`
	FetchedAt         time.Time       `json:"fetched_at"`
	ReliabilityWeight float64         `json:"reliability_weight"`
	Error             SourceErrorKind `json:"error,omitempty"`
}

// Absent reports whether the result carries no usable value.
func (r SourceResult) Absent() bool {
	return r.Value == "" || r.Error != ""
}

// ReconciledAnswer is the winning value with its source partition.
type ReconciledAnswer struct {
	Value              string   `json:"value"`
	SupportingSources  []string `json:"supporting_sources"`
	ConflictingSources []string `json:"conflicting_sources,omitempty"`
}

// Ambiguity reasons, in detection order.
const (
	ReasonSourceConflict   = "SOURCE_CONFLICT"
	ReasonMultipleEntities = "MULTIPLE_ENTITIES"
	ReasonNoSupport        = "NO_SUPPORT"
)

// SourceAttribution names a consulted source in a response.
type SourceAttribution struct {
	SourceID string          `json:"source_id"`
	Weight   float64         `json:"weight"`
	Error    SourceErrorKind `json:"error,omitempty"`
}

// ScoredResponse is the final answer returned to callers and stored in the
// cache.
type ScoredResponse struct {
	Query           StructuredQuery     `json:"query"`
	Answer          ReconciledAnswer    `json:"answer"`
	Confidence      float64             `json:"confidence"`
	Ambiguous       bool                `json:"ambiguous"`
	AmbiguityReason string              `json:"ambiguity_reason,omitempty"`
	Sources         []SourceAttribution `json:"sources"`
	CachedAt        time.Time           `json:"cached_at"`
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// OutcomeKind classifies the result of resolving one reference.
type OutcomeKind int

const (
	// OutcomeNotFound means no provider returned a usable candidate.
	OutcomeNotFound OutcomeKind = iota

	// OutcomeResolved means exactly one candidate survived ranking.
	OutcomeResolved

	// OutcomeAmbiguous means two or more plausible candidates remain and
	// the caller must disambiguate.
	OutcomeAmbiguous

	// OutcomeError means resolution itself failed. Batch processing
	// degrades this to the not-found presentation for that line only.
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeResolved:
		return "resolved"
	case OutcomeAmbiguous:
		return "ambiguous"
	case OutcomeError:
		return "error"
	default:
		return "not_found"
	}
}

// Outcome is the per-query resolution result. Exactly one of Paper or
// Candidates is populated, depending on Kind. Candidates never holds fewer
// than two entries: a single survivor collapses to Resolved and an empty
// set to NotFound (use the constructors below).
type Outcome struct {
	Kind       OutcomeKind
	Paper      *Paper
	Candidates []Paper
	Reason     string
}

// Resolved wraps a single matched paper.
func Resolved(p *Paper) Outcome {
	return Outcome{Kind: OutcomeResolved, Paper: p}
}

// Ambiguous wraps a ranked candidate set. Callers must pass two or more
// candidates; smaller sets go through Resolved or NotFound instead.
func Ambiguous(candidates []Paper) Outcome {
	return Outcome{Kind: OutcomeAmbiguous, Candidates: candidates}
}

// NotFound reports that no candidate matched the query.
func NotFound() Outcome {
	return Outcome{Kind: OutcomeNotFound}
}

// Errored reports a resolution failure with a human-readable reason.
func Errored(reason string) Outcome {
	return Outcome{Kind: OutcomeError, Reason: reason}
}

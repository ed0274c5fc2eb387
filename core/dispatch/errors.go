package dispatch

import (
	"errors"
	"fmt"
)

// Kind classifies why a dispatch failed
type Kind string

const (
	ManifestNotFound   Kind = "ManifestNotFound"
	AmbiguousManifest  Kind = "AmbiguousManifest"
	DownloadError      Kind = "DownloadError"
	ExtractionError    Kind = "ExtractionError"
	ManifestParseError Kind = "ManifestParseError"
	SubmissionError    Kind = "SubmissionError"
	ReportingError     Kind = "ReportingError"
)

// Stage is a step of the per-invocation state machine
type Stage string

const (
	StageReceived   Stage = "received"
	StageLocating   Stage = "locating"
	StageFetching   Stage = "fetching"
	StageParsing    Stage = "parsing"
	StageSubmitting Stage = "submitting"
	StageSucceeded  Stage = "succeeded"
	StageFailed     Stage = "failed"
)

// Sentinels for errors.Is. They match any *Error of the same kind.
var (
	ErrManifestNotFound  = &Error{Kind: ManifestNotFound}
	ErrAmbiguousManifest = &Error{Kind: AmbiguousManifest}
	ErrDownload          = &Error{Kind: DownloadError}
	ErrExtraction        = &Error{Kind: ExtractionError}
	ErrManifestParse     = &Error{Kind: ManifestParseError}
	ErrSubmission        = &Error{Kind: SubmissionError}
	ErrReporting         = &Error{Kind: ReportingError}
)

// Error is a classified dispatch failure
type Error struct {
	Kind Kind
	Err  error
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinels by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Err != nil {
		return false
	}
	return t.Kind == e.Kind
}

// Stage reports the state the invocation was in when the error occurred.
func (e *Error) Stage() Stage {
	switch e.Kind {
	case ManifestNotFound, AmbiguousManifest:
		return StageLocating
	case DownloadError, ExtractionError:
		return StageFetching
	case ManifestParseError:
		return StageParsing
	case SubmissionError:
		return StageSubmitting
	default:
		return StageFailed
	}
}

// KindOf returns the kind of a dispatch error, or "" for anything else.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

func asError(err error, fallback Kind) *Error {
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return newError(fallback, err)
}

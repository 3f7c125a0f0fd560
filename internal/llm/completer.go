// Package llm defines the text completion capability used by triage and the
// provider implementations and decorators behind it.
package llm

//go:generate mockgen -destination=mocks/mock_completer.go -package=mocks . Completer

import (
	"context"
	"errors"
)

// Aspect names one triage question asked of a model.
type Aspect string

const (
	AspectTriage   Aspect = "triage"
	AspectClassify Aspect = "classify"
	AspectPriority Aspect = "priority"
	AspectSummary  Aspect = "summary"
)

// Aspects returns every aspect.
func Aspects() []Aspect {
	return []Aspect{AspectTriage, AspectClassify, AspectPriority, AspectSummary}
}

// ModelOffline is reported by completers that never leave the process.
const ModelOffline = "offline"

// ErrEmptyResponse is returned when a provider answers without text.
var ErrEmptyResponse = errors.New("empty completion")

// Request is a single text-in, text-out completion.
type Request struct {
	Aspect      Aspect
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
	// Text is the raw complaint; offline completers answer from it.
	Text string
	// Category is the caller's category context, if any.
	Category string
}

// Response is a completion result.
type Response struct {
	Text  string
	Model string
	// Offline is set when the text was produced without a remote model.
	Offline bool
}

// Completer answers completion requests.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Response, error)
	Name() string
}

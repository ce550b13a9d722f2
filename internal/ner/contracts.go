package ner

import "context"

// Kind classifies a recognized span.
type Kind string

const (
	KindPerson   Kind = "PERSON"
	KindDate     Kind = "DATE"
	KindMoney    Kind = "MONEY"
	KindProvider Kind = "PROVIDER"
)

// Entity is a single typed span produced by the recognizer. Entities are
// read-only inputs to extraction; order is the recognizer's document order.
type Entity struct {
	Kind Kind   `json:"label"`
	Text string `json:"text"`
}

// Recognizer is the behavior the extractor depends on.
type Recognizer interface {
	// Recognize returns typed spans for the given raw text, in document order.
	Recognize(ctx context.Context, text string) ([]Entity, error)
}

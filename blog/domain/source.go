package domain

import (
	"context"
	"time"
)

// RawDocument is a schema-flexible document as returned by the document store.
type RawDocument struct {
	Name   string           `json:"name"`
	Fields map[string]Value `json:"fields"`
}

// Value is a tagged document-store value. Only one member is set.
type Value struct {
	StringValue    *string     `json:"stringValue,omitempty"`
	BooleanValue   *bool       `json:"booleanValue,omitempty"`
	IntegerValue   *string     `json:"integerValue,omitempty"`
	TimestampValue *string     `json:"timestampValue,omitempty"`
	ArrayValue     *ArrayValue `json:"arrayValue,omitempty"`
}

// ArrayValue holds the elements of an array-typed value.
type ArrayValue struct {
	Values []Value `json:"values"`
}

// DocumentList is the response envelope of a collection read.
// Documents is nil when the store returned no documents field.
type DocumentList struct {
	Documents     []RawDocument `json:"documents"`
	NextPageToken string        `json:"nextPageToken,omitempty"`
}

// DocumentSource defines the interface for reading blog documents (e.g., from Firestore).
type DocumentSource interface {
	FetchDocuments(ctx context.Context) (*DocumentList, error)
}

// DispatchEvent is the payload forwarded to the CI platform.
type DispatchEvent struct {
	EventType string
	Message   string
	Timestamp time.Time
}

// DispatchResult reports the upstream outcome of a dispatch call.
type DispatchResult struct {
	StatusCode int
	Body       string
}

// Dispatcher triggers a repository event on the source-control platform.
type Dispatcher interface {
	Dispatch(ctx context.Context, evt DispatchEvent) (*DispatchResult, error)
	GetRepoFullName() string
}

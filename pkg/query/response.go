package query

import "time"

const (
	// FailedMessage is shown for any failed fetch; details stay in the logs.
	FailedMessage = "request failed, check configuration"
	// UnavailableMessage is shown when a chain is unsupported or no API key is configured.
	UnavailableMessage = "not available here"

	statusUnavailable = "unavailable"
)

// Response is the tri-state JSON shape handed to the presentation layer.
type Response[D any] struct {
	Data      D          `json:"data"`
	IsLoading bool       `json:"isLoading"`
	IsError   bool       `json:"isError"`
	Status    string     `json:"status"`
	Error     string     `json:"error,omitempty"`
	Message   string     `json:"message,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// FromResult converts a Result for the wire. Error details are never exposed.
func FromResult[T, D any](r Result[T], convert func(T) D) Response[D] {
	resp := Response[D]{
		Data:      convert(r.Data),
		IsLoading: r.IsLoading(),
		IsError:   r.IsError(),
		Status:    r.Status.String(),
	}
	if r.IsError() {
		resp.Error = FailedMessage
	}
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt.UTC()
		resp.UpdatedAt = &t
	}
	return resp
}

// Unavailable is the response for an unsupported chain or a disabled indexer.
func Unavailable[D any](empty D) Response[D] {
	return Response[D]{
		Data:    empty,
		Status:  statusUnavailable,
		Message: UnavailableMessage,
	}
}

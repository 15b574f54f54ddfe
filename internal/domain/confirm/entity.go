// internal/domain/confirm/entity.go
package confirm

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// Options are the caller supplied fields of a confirmation dialog. Empty
// fields are filled from the per-kind defaults.
type Options struct {
	Title        string `json:"title"`
	Message      string `json:"message" binding:"required"`
	Kind         Kind   `json:"kind"`
	ConfirmLabel string `json:"confirm_label"`
	CancelLabel  string `json:"cancel_label"`
	StyleClass   string `json:"style_class"`
	Icon         string `json:"icon"`
}

// Request is the descriptor held in the pending slot.
type Request struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Message      string `json:"message"`
	Kind         Kind   `json:"kind"`
	ConfirmLabel string `json:"confirm_label"`
	CancelLabel  string `json:"cancel_label"`
	StyleClass   string `json:"style_class"`
	Icon         string `json:"icon"`
}

// State is what the presentation layer renders.
type State struct {
	Visible bool     `json:"visible"`
	Request *Request `json:"request,omitempty"`
}

type DecisionResponse struct {
	RequestID string `json:"request_id"`
	Confirmed bool   `json:"confirmed"`
}

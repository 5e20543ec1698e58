package pipeline

// Kind classifies why a pipeline run did not succeed.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindNoCandidates  Kind = "no_candidates"
	KindNoMatches     Kind = "no_matches"
	KindQuotaExceeded Kind = "quota_exceeded"
	KindAuth          Kind = "auth"
	KindNotConfigured Kind = "not_configured"
	KindInternal      Kind = "internal"
)

// Failure is the error variant of a Result. Message is safe to show to users.
type Failure struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

func (f *Failure) Error() string {
	return string(f.Kind) + ": " + f.Message
}

// Result is either a successful value or a Failure, never both.
type Result[T any] struct {
	Success bool     `json:"success"`
	Data    T        `json:"data,omitempty"`
	Error   *Failure `json:"error,omitempty"`
}

// Ok wraps a successful value.
func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

// Fail wraps a failure.
func Fail[T any](kind Kind, message string) Result[T] {
	return Result[T]{Error: &Failure{Kind: kind, Message: message}}
}

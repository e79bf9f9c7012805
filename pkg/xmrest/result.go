package xmrest

// ResultType classifies the outcome of a transport call.
type ResultType int64

// Result outcomes.
const (
	ResultNone    ResultType = 0
	ResultSuccess ResultType = 1
	ResultError   ResultType = 2
)

// String returns the outcome name.
func (t ResultType) String() string {
	switch t {
	case ResultSuccess:
		return "success"
	case ResultError:
		return "error"
	default:
		return "none"
	}
}

// Result is the envelope produced by every transport call. It carries no HTTP
// status code; a non-2xx response is an error with an empty message and the
// response body retained for inspection.
type Result struct {
	kind    ResultType
	message string
	body    string
}

// NewSuccessResult returns a successful envelope carrying the response body.
func NewSuccessResult(body string) *Result {
	return &Result{kind: ResultSuccess, body: body}
}

// NewErrorResult returns a failed envelope. The body is empty for transport
// failures.
func NewErrorResult(message, body string) *Result {
	return &Result{kind: ResultError, message: message, body: body}
}

// Type returns the outcome.
func (r *Result) Type() ResultType {
	if r == nil {
		return ResultNone
	}

	return r.kind
}

// Message returns the failure description. Empty unless Type is ResultError.
func (r *Result) Message() string {
	if r == nil {
		return ""
	}

	return r.message
}

// Body returns the raw response text.
func (r *Result) Body() string {
	if r == nil {
		return ""
	}

	return r.body
}

// Succeeded reports whether the call completed with a 2xx status.
func (r *Result) Succeeded() bool {
	return r.Type() == ResultSuccess
}

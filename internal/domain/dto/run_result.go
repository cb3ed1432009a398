package dto

// RunResult is the outcome of one pipeline invocation, shaped like the
// serverless response the scheduler expects.
//
// Fields:
//   - StatusCode: 200 on success, 500 on any fatal failure.
//   - Body: "Success" or a human-readable cause.
type RunResult struct {
	StatusCode int    `json:"statusCode" example:"200"`
	Body       string `json:"body" example:"Success"`
}

// OK reports whether the run succeeded.
func (r RunResult) OK() bool { return r.StatusCode == 200 }

package model

type FlowStatus string

const (
	FlowIdle    FlowStatus = "idle"
	FlowLoading FlowStatus = "loading"
	FlowError   FlowStatus = "error"
	FlowSuccess FlowStatus = "success"
	FlowInfo    FlowStatus = "info"
)

// FlowState is what a page renders. A single status and message means only
// one of error/success/info is ever visible.
type FlowState struct {
	Status  FlowStatus `json:"status"`
	Message string     `json:"message,omitempty"`
}

func (s FlowState) IsLoading() bool {
	return s.Status == FlowLoading
}

func (s FlowState) IsError() bool {
	return s.Status == FlowError
}

func (s FlowState) IsSuccess() bool {
	return s.Status == FlowSuccess
}

func (s FlowState) IsInfo() bool {
	return s.Status == FlowInfo
}

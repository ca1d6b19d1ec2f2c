package components

import "github.com/elarca/resetweb/internal/model"

var alertVariants = map[model.FlowStatus]string{
	model.FlowError:   "border-red-300 bg-red-50 text-red-800",
	model.FlowSuccess: "border-green-300 bg-green-50 text-green-800",
	model.FlowInfo:    "border-blue-300 bg-blue-50 text-blue-800",
	model.FlowLoading: "border-gray-300 bg-gray-50 text-gray-700",
}

func alertRole(state model.FlowState) string {
	if state.IsError() {
		return "alert"
	}
	return "status"
}

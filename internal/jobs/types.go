package jobs

const TaskComputeActivity = "compute:activity"

type ComputeActivityPayload struct {
	Path string `json:"path"`
}

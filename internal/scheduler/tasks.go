package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskCoverageReconcile = "coverage.reconcile"

type CoverageReconcilePayload struct {
	RequestedAt time.Time `json:"requestedAt"`
}

func NewCoverageReconcileTask(payload CoverageReconcilePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCoverageReconcile, data), nil
}

func ParseCoverageReconcilePayload(task *asynq.Task) (CoverageReconcilePayload, error) {
	var payload CoverageReconcilePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return CoverageReconcilePayload{}, err
	}
	return payload, nil
}

package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskCRMFullSync = "crm.full_sync"

const TaskCompletenessScan = "completeness.scan"

type CRMFullSyncPayload struct {
	// Manual marks operator-triggered runs so logs can distinguish them from
	// scheduled ones.
	Manual bool `json:"manual"`
}

type CompletenessScanPayload struct {
	ScheduledFor string `json:"scheduledFor"`
}

func NewCRMFullSyncTask(payload CRMFullSyncPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCRMFullSync, data), nil
}

func ParseCRMFullSyncPayload(task *asynq.Task) (CRMFullSyncPayload, error) {
	var payload CRMFullSyncPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return CRMFullSyncPayload{}, err
	}
	return payload, nil
}

func NewCompletenessScanTask(payload CompletenessScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCompletenessScan, data), nil
}

func ParseCompletenessScanPayload(task *asynq.Task) (CompletenessScanPayload, error) {
	var payload CompletenessScanPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return CompletenessScanPayload{}, err
	}
	return payload, nil
}

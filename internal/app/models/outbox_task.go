package models

import (
	"encoding/json"
	"time"
)

// OutboxTaskType identifies the side effect an outbox task performs
type OutboxTaskType string

const (
	TaskMemberCredentials   OutboxTaskType = "member_credentials"
	TaskMemberApproval      OutboxTaskType = "member_approval"
	TaskDonationReceipt     OutboxTaskType = "donation_receipt"
	TaskDonationCertificate OutboxTaskType = "donation_certificate"
	TaskContactAck          OutboxTaskType = "contact_ack"
)

// OutboxTaskStatus represents the processing state of an outbox task
type OutboxTaskStatus string

const (
	TaskPending    OutboxTaskStatus = "pending"
	TaskProcessing OutboxTaskStatus = "processing"
	TaskDone       OutboxTaskStatus = "done"
	TaskFailed     OutboxTaskStatus = "failed"
)

// OutboxTask is a persisted deferred side effect (email or certificate
// delivery) based on the 'outbox_tasks' table. Tasks are polled by the
// background worker; the HTTP request that created them never waits on them.
type OutboxTask struct {
	ID          int64            `json:"id" db:"id"`
	TaskType    OutboxTaskType   `json:"taskType" db:"task_type"`
	Payload     json.RawMessage  `json:"payload" db:"payload"`
	Status      OutboxTaskStatus `json:"status" db:"status"`
	Attempts    int              `json:"attempts" db:"attempts"`
	LastError   string           `json:"lastError,omitempty" db:"last_error"`
	ClaimedAt   *time.Time       `json:"claimedAt,omitempty" db:"claimed_at"`
	CreatedAt   time.Time        `json:"createdAt" db:"created_at"`
	ProcessedAt *time.Time       `json:"processedAt,omitempty" db:"processed_at"`
}

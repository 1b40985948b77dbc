package jobqueue

import (
	"encoding/json"
	"time"
)

// JobType defines the type of job
type JobType string

const (
	JobTypeDocumentArchive JobType = "document_archive"
	JobTypeDocumentDelete  JobType = "document_delete"
	JobTypeProjectTeardown JobType = "project_teardown"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusRetrying   JobStatus = "retrying"
)

// Job represents a background job
type Job struct {
	ID          string                 `json:"id"`
	Type        JobType                `json:"type"`
	Status      JobStatus              `json:"status"`
	Payload     map[string]interface{} `json:"payload"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	ProcessedAt *time.Time             `json:"processed_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	ErrorMsg    string                 `json:"error_msg,omitempty"`
	RetryCount  int                    `json:"retry_count"`
	MaxRetries  int                    `json:"max_retries"`
}

// DocumentArchiveJobPayload contains the payload for moving an uploaded
// document from local temp storage into the S3 vault
type DocumentArchiveJobPayload struct {
	DocumentID   uint   `json:"document_id"`
	DocumentUUID string `json:"document_uuid"`
	ProjectUUID  string `json:"project_uuid"`
	LocalPath    string `json:"local_path"` // Temp file written by the upload handler
	FileName     string `json:"file_name"`
	FileSize     int64  `json:"file_size"`
}

// ToMap converts the payload to a map for storage
func (p DocumentArchiveJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"document_id":   p.DocumentID,
		"document_uuid": p.DocumentUUID,
		"project_uuid":  p.ProjectUUID,
		"local_path":    p.LocalPath,
		"file_name":     p.FileName,
		"file_size":     p.FileSize,
	}
}

// DocumentArchiveJobPayloadFromMap creates a payload from a map
func DocumentArchiveJobPayloadFromMap(data map[string]interface{}) (*DocumentArchiveJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload DocumentArchiveJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// DocumentDeleteJobPayload contains the payload for removing a document
// object from the S3 vault after its database row was deleted
type DocumentDeleteJobPayload struct {
	DocumentID   uint   `json:"document_id"`
	DocumentUUID string `json:"document_uuid"`
	ObjectKey    string `json:"object_key"`
}

// ToMap converts the payload to a map for storage
func (p DocumentDeleteJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"document_id":   p.DocumentID,
		"document_uuid": p.DocumentUUID,
		"object_key":    p.ObjectKey,
	}
}

// DocumentDeleteJobPayloadFromMap creates a delete payload from a map
func DocumentDeleteJobPayloadFromMap(data map[string]interface{}) (*DocumentDeleteJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload DocumentDeleteJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// ProjectTeardownJobPayload contains the payload for deleting a withdrawn or
// rejected project together with its photos, thumbnails and vault documents
type ProjectTeardownJobPayload struct {
	ProjectID     uint   `json:"project_id"`
	ProjectUUID   string `json:"project_uuid"`
	InitiatedByID *uint  `json:"initiated_by_id,omitempty"`
}

func (p ProjectTeardownJobPayload) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"project_id":   p.ProjectID,
		"project_uuid": p.ProjectUUID,
	}
	if p.InitiatedByID != nil {
		m["initiated_by_id"] = *p.InitiatedByID
	}
	return m
}

func ProjectTeardownJobPayloadFromMap(data map[string]interface{}) (*ProjectTeardownJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload ProjectTeardownJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// IsRetryable checks if the job can be retried
func (j *Job) IsRetryable() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// MarkAsProcessing updates the job status to processing
func (j *Job) MarkAsProcessing() {
	now := time.Now()
	j.Status = JobStatusProcessing
	j.UpdatedAt = now
	j.ProcessedAt = &now
}

// MarkAsCompleted updates the job status to completed
func (j *Job) MarkAsCompleted() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.UpdatedAt = now
	j.CompletedAt = &now
	j.ErrorMsg = ""
}

// MarkAsFailed updates the job status to failed
func (j *Job) MarkAsFailed(errorMsg string) {
	j.Status = JobStatusFailed
	j.UpdatedAt = time.Now()
	j.ErrorMsg = errorMsg
	j.RetryCount++
}

// MarkAsRetrying updates the job status to retrying
func (j *Job) MarkAsRetrying() {
	j.Status = JobStatusRetrying
	j.UpdatedAt = time.Now()
}

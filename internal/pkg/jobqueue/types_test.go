package jobqueue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDocumentArchiveJobPayloadRoundTrip(t *testing.T) {
	payload := DocumentArchiveJobPayload{
		DocumentID:   42,
		DocumentUUID: "doc-uuid",
		ProjectUUID:  "project-uuid",
		LocalPath:    "/tmp/uploads/doc.pdf",
		FileName:     "prospectus.pdf",
		FileSize:     2048,
	}

	restored, err := DocumentArchiveJobPayloadFromMap(payload.ToMap())
	assert.NoError(t, err)
	assert.Equal(t, payload, *restored)
}

func TestDocumentDeleteJobPayloadRoundTrip(t *testing.T) {
	payload := DocumentDeleteJobPayload{
		DocumentID:   7,
		DocumentUUID: "doc-uuid",
		ObjectKey:    "documents/project-uuid/doc-uuid.pdf",
	}

	restored, err := DocumentDeleteJobPayloadFromMap(payload.ToMap())
	assert.NoError(t, err)
	assert.Equal(t, payload, *restored)
}

func TestProjectTeardownJobPayloadRoundTrip(t *testing.T) {
	adminID := uint(3)
	payload := ProjectTeardownJobPayload{
		ProjectID:     11,
		ProjectUUID:   "project-uuid",
		InitiatedByID: &adminID,
	}

	restored, err := ProjectTeardownJobPayloadFromMap(payload.ToMap())
	assert.NoError(t, err)
	assert.Equal(t, payload.ProjectID, restored.ProjectID)
	assert.Equal(t, payload.ProjectUUID, restored.ProjectUUID)
	if assert.NotNil(t, restored.InitiatedByID) {
		assert.Equal(t, adminID, *restored.InitiatedByID)
	}

	// Without initiator the key must be absent from the map
	payload.InitiatedByID = nil
	m := payload.ToMap()
	_, ok := m["initiated_by_id"]
	assert.False(t, ok)
}

func TestJobLifecycleTransitions(t *testing.T) {
	job := &Job{
		ID:         "test-job",
		Type:       JobTypeDocumentArchive,
		Status:     JobStatusPending,
		MaxRetries: DefaultMaxRetries,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	job.MarkAsProcessing()
	assert.Equal(t, JobStatusProcessing, job.Status)
	assert.NotNil(t, job.ProcessedAt)

	job.MarkAsFailed("vault unavailable")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "vault unavailable", job.ErrorMsg)
	assert.Equal(t, 1, job.RetryCount)
	assert.True(t, job.IsRetryable())

	job.MarkAsRetrying()
	assert.Equal(t, JobStatusRetrying, job.Status)

	job.MarkAsCompleted()
	assert.Equal(t, JobStatusCompleted, job.Status)
	assert.NotNil(t, job.CompletedAt)
	assert.Empty(t, job.ErrorMsg)
}

func TestJobIsRetryableExhaustsRetries(t *testing.T) {
	job := &Job{Status: JobStatusFailed, RetryCount: DefaultMaxRetries, MaxRetries: DefaultMaxRetries}
	assert.False(t, job.IsRetryable())

	job.RetryCount = DefaultMaxRetries - 1
	assert.True(t, job.IsRetryable())

	job.Status = JobStatusPending
	assert.False(t, job.IsRetryable())
}

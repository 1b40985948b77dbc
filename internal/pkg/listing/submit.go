package listing

import (
	"context"
	"fmt"
	"io"

	fiberlog "github.com/gofiber/fiber/v2/log"
)

// State tracks where a submission attempt ended up.
type State string

const (
	StateEditing                State = "editing"
	StateValidating             State = "validating"
	StateUploadingAssets        State = "uploading_assets"
	StateCreatingResource       State = "creating_resource"
	StateSucceeded              State = "succeeded"
	StateValidationFailed       State = "validation_failed"
	StateAssetUploadFailed      State = "asset_upload_failed"
	StateResourceCreationFailed State = "resource_creation_failed"
)

const genericCreateError = "The project could not be created. Please try again."

// UploadFile is one pending binary asset of a submission.
type UploadFile struct {
	Name   string
	Size   int64
	Reader io.Reader
}

// UploadResult is the structured response of an asset uploader. Data holds
// the asset references (URLs) for successfully stored files.
type UploadResult struct {
	Success bool     `json:"success"`
	Data    []string `json:"data"`
	Message string   `json:"message"`
}

// AssetUploader stores a batch of binary assets and returns their
// references. It must accept an empty batch without error.
type AssetUploader interface {
	Upload(ctx context.Context, files []UploadFile) (*UploadResult, error)
}

// CreateResult is the decoded response of a resource creator. Success is a
// pointer because a backend may omit the flag entirely; Error may be a bare
// string or an object carrying a message.
type CreateResult struct {
	Success *bool                  `json:"success"`
	Data    map[string]interface{} `json:"data"`
	Message string                 `json:"message"`
	Error   interface{}            `json:"error"`
}

// ResourceCreator persists the merged listing payload.
type ResourceCreator interface {
	Create(ctx context.Context, payload map[string]interface{}) (*CreateResult, error)
}

// Outcome is the terminal result of one submission attempt. The form itself
// is never mutated, so any failure state can return to editing without data
// loss.
type Outcome struct {
	State       State
	FieldErrors FieldErrors
	AssetRefs   []string
	// UploadDegraded is set when asset upload failed and the resource was
	// created without attachments.
	UploadDegraded bool
	Message        string
	Data           map[string]interface{}
}

// Submitter drives the two-phase submission: validate, upload assets, merge
// references, create the resource. Collaborator failures never escape as
// raw errors.
type Submitter struct {
	uploader AssetUploader
	creator  ResourceCreator
}

func NewSubmitter(uploader AssetUploader, creator ResourceCreator) *Submitter {
	return &Submitter{uploader: uploader, creator: creator}
}

// Submit runs one full submission attempt for the given form and pending
// files. Validation failure stops before any network call. Asset upload
// failure is non-fatal: the resource is still created with an empty
// reference list.
func (s *Submitter) Submit(ctx context.Context, form *Form, files []UploadFile) Outcome {
	if errs := ValidateAll(form); errs.Any() {
		return Outcome{State: StateValidationFailed, FieldErrors: errs}
	}

	refs := []string{}
	degraded := false
	if len(files) > 0 {
		result, err := s.safeUpload(ctx, files)
		switch {
		case err != nil:
			fiberlog.Warnf("[Listing] Asset upload failed, creating listing without attachments: %v", err)
			degraded = true
		case result == nil || !result.Success:
			msg := ""
			if result != nil {
				msg = result.Message
			}
			fiberlog.Warnf("[Listing] Asset upload rejected, creating listing without attachments: %s", msg)
			degraded = true
		default:
			refs = result.Data
			if refs == nil {
				refs = []string{}
			}
		}
	}

	payload := form.Payload()
	payload["images"] = refs

	result, err := s.safeCreate(ctx, payload)
	if err != nil {
		fiberlog.Errorf("[Listing] Resource creation failed: %v", err)
		return Outcome{
			State:          StateResourceCreationFailed,
			AssetRefs:      refs,
			UploadDegraded: degraded,
			Message:        genericCreateError,
		}
	}

	if isCreateSuccess(result) {
		if result.Success != nil && *result.Success && len(result.Data) == 0 {
			fiberlog.Warnf("[Listing] Creation reported success without data payload")
		}
		return Outcome{
			State:          StateSucceeded,
			AssetRefs:      refs,
			UploadDegraded: degraded,
			Data:           result.Data,
		}
	}

	return Outcome{
		State:          StateResourceCreationFailed,
		AssetRefs:      refs,
		UploadDegraded: degraded,
		Message:        extractErrorMessage(result),
	}
}

// isCreateSuccess tolerates backends that omit the success flag as long as
// data came back. An explicit true flag with empty data still counts.
func isCreateSuccess(result *CreateResult) bool {
	if result == nil {
		return false
	}
	if result.Success != nil {
		return *result.Success
	}
	return len(result.Data) > 0
}

// extractErrorMessage resolves the user-facing message with a fixed
// priority: message field, string error, nested error message, generic
// fallback. Callers display only the first resolved message.
func extractErrorMessage(result *CreateResult) string {
	if result == nil {
		return genericCreateError
	}
	if result.Message != "" {
		return result.Message
	}
	switch e := result.Error.(type) {
	case string:
		if e != "" {
			return e
		}
	case map[string]interface{}:
		if msg, ok := e["message"].(string); ok && msg != "" {
			return msg
		}
	}
	return genericCreateError
}

func (s *Submitter) safeUpload(ctx context.Context, files []UploadFile) (result *UploadResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("asset uploader panicked: %v", r)
		}
	}()
	return s.uploader.Upload(ctx, files)
}

func (s *Submitter) safeCreate(ctx context.Context, payload map[string]interface{}) (result *CreateResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("resource creator panicked: %v", r)
		}
	}()
	return s.creator.Create(ctx, payload)
}

package listing

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	calls  int
	result *UploadResult
	err    error
	panics bool
}

func (f *fakeUploader) Upload(ctx context.Context, files []UploadFile) (*UploadResult, error) {
	f.calls++
	if f.panics {
		panic("uploader exploded")
	}
	return f.result, f.err
}

type fakeCreator struct {
	calls   int
	payload map[string]interface{}
	result  *CreateResult
	err     error
}

func (f *fakeCreator) Create(ctx context.Context, payload map[string]interface{}) (*CreateResult, error) {
	f.calls++
	f.payload = payload
	return f.result, f.err
}

func boolPtr(b bool) *bool { return &b }

func validForm() *Form {
	f := &Form{
		Title:         "Riverside Lofts",
		Location:      "Hamburg",
		PropertyType:  "residential",
		Description:   "Conversion of a riverside warehouse into 24 loft apartments.",
		TargetAmount:  "500000",
		MinInvestment: "250",
		MaxInvestment: "50000",
		ExpectedROI:   "7.5",
		TermMonths:    "36",
	}
	f.Highlights.Add("Waterfront location")
	f.RiskFactors.Add("Construction delay")
	f.MitigationStrategies.Add("Fixed-price contract")
	f.Timeline.Add(Milestone{Title: "Permits", TargetDate: "2026-01"})
	return f
}

func pendingFiles(n int) []UploadFile {
	files := make([]UploadFile, 0, n)
	for i := 0; i < n; i++ {
		files = append(files, UploadFile{Name: "photo.jpg", Size: 4, Reader: strings.NewReader("data")})
	}
	return files
}

func TestSubmitUploadFailureIsNonFatal(t *testing.T) {
	uploader := &fakeUploader{err: errors.New("storage unreachable")}
	creator := &fakeCreator{result: &CreateResult{Success: boolPtr(true), Data: map[string]interface{}{"id": "p-1"}}}
	sub := NewSubmitter(uploader, creator)

	outcome := sub.Submit(context.Background(), validForm(), pendingFiles(2))

	require.Equal(t, StateSucceeded, outcome.State)
	assert.True(t, outcome.UploadDegraded)
	require.Equal(t, 1, creator.calls)
	assert.Equal(t, []string{}, creator.payload["images"])
}

func TestSubmitUploaderPanicIsContained(t *testing.T) {
	uploader := &fakeUploader{panics: true}
	creator := &fakeCreator{result: &CreateResult{Success: boolPtr(true), Data: map[string]interface{}{"id": "p-2"}}}
	sub := NewSubmitter(uploader, creator)

	outcome := sub.Submit(context.Background(), validForm(), pendingFiles(1))

	require.Equal(t, StateSucceeded, outcome.State)
	assert.True(t, outcome.UploadDegraded)
	assert.Equal(t, []string{}, creator.payload["images"])
}

func TestSubmitSuccessWithoutFlag(t *testing.T) {
	creator := &fakeCreator{result: &CreateResult{Data: map[string]interface{}{"id": "123"}}}
	sub := NewSubmitter(&fakeUploader{}, creator)

	outcome := sub.Submit(context.Background(), validForm(), nil)

	require.Equal(t, StateSucceeded, outcome.State)
	assert.Equal(t, "123", outcome.Data["id"])
}

func TestSubmitEmptyAssetsSkipsUploader(t *testing.T) {
	uploader := &fakeUploader{}
	creator := &fakeCreator{result: &CreateResult{Success: boolPtr(true), Data: map[string]interface{}{"id": "p-3"}}}
	sub := NewSubmitter(uploader, creator)

	outcome := sub.Submit(context.Background(), validForm(), nil)

	require.Equal(t, StateSucceeded, outcome.State)
	assert.Equal(t, 0, uploader.calls, "uploader must not run without pending files")
	require.Equal(t, 1, creator.calls)
	assert.Equal(t, []string{}, creator.payload["images"])
}

func TestSubmitMergesAssetReferences(t *testing.T) {
	uploader := &fakeUploader{result: &UploadResult{Success: true, Data: []string{"/media/a.jpg", "/media/b.jpg"}}}
	creator := &fakeCreator{result: &CreateResult{Success: boolPtr(true), Data: map[string]interface{}{"id": "p-4"}}}
	sub := NewSubmitter(uploader, creator)

	outcome := sub.Submit(context.Background(), validForm(), pendingFiles(2))

	require.Equal(t, StateSucceeded, outcome.State)
	assert.False(t, outcome.UploadDegraded)
	assert.Equal(t, []string{"/media/a.jpg", "/media/b.jpg"}, creator.payload["images"])
}

func TestSubmitValidationFailureMakesNoNetworkCalls(t *testing.T) {
	uploader := &fakeUploader{}
	creator := &fakeCreator{}
	sub := NewSubmitter(uploader, creator)

	form := validForm()
	form.TargetAmount = "-5"
	outcome := sub.Submit(context.Background(), form, pendingFiles(1))

	require.Equal(t, StateValidationFailed, outcome.State)
	assert.Contains(t, outcome.FieldErrors, "target_amount")
	assert.Equal(t, 0, uploader.calls)
	assert.Equal(t, 0, creator.calls)
}

func TestSubmitExplicitFailure(t *testing.T) {
	creator := &fakeCreator{result: &CreateResult{Success: boolPtr(false), Message: "listing quota exceeded"}}
	sub := NewSubmitter(&fakeUploader{}, creator)

	outcome := sub.Submit(context.Background(), validForm(), nil)

	require.Equal(t, StateResourceCreationFailed, outcome.State)
	assert.Equal(t, "listing quota exceeded", outcome.Message)
}

func TestSubmitCreatorTransportError(t *testing.T) {
	creator := &fakeCreator{err: errors.New("connection reset")}
	sub := NewSubmitter(&fakeUploader{}, creator)

	outcome := sub.Submit(context.Background(), validForm(), nil)

	require.Equal(t, StateResourceCreationFailed, outcome.State)
	assert.Equal(t, genericCreateError, outcome.Message)
}

func TestSubmitSuccessFlagWithEmptyDataIsOptimistic(t *testing.T) {
	creator := &fakeCreator{result: &CreateResult{Success: boolPtr(true)}}
	sub := NewSubmitter(&fakeUploader{}, creator)

	outcome := sub.Submit(context.Background(), validForm(), nil)

	assert.Equal(t, StateSucceeded, outcome.State)
}

func TestExtractErrorMessagePriority(t *testing.T) {
	tests := []struct {
		name   string
		result *CreateResult
		want   string
	}{
		{"message wins", &CreateResult{Message: "top", Error: "lower"}, "top"},
		{"string error", &CreateResult{Error: "plain failure"}, "plain failure"},
		{"nested error", &CreateResult{Error: map[string]interface{}{"message": "nested failure"}}, "nested failure"},
		{"nested without message", &CreateResult{Error: map[string]interface{}{"code": 42}}, genericCreateError},
		{"nothing", &CreateResult{}, genericCreateError},
		{"nil", nil, genericCreateError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractErrorMessage(tt.result))
		})
	}
}

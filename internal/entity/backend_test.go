package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
		wantErr bool
	}{
		{name: "string grade", payload: `{"score":"7/10"}`, want: "7/10"},
		{name: "integer", payload: `{"score":7}`, want: "7"},
		{name: "float", payload: `{"score":7.5}`, want: "7.5"},
		{name: "null", payload: `{"score":null}`, want: ""},
		{name: "missing", payload: `{}`, want: ""},
		{name: "object", payload: `{"score":{"value":7}}`, wantErr: true},
		{name: "bool", payload: `{"score":true}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp FitScoreResponse
			err := json.Unmarshal([]byte(tt.payload), &resp)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Score.String())
		})
	}
}

func TestAlertMessage(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	alert := NewAlert(MsgUploadFailed, fmt.Errorf("%w: %w", ErrUploadFailed, cause))

	assert.Equal(t, "", AlertMessage(nil))
	assert.Equal(t, MsgUploadFailed, AlertMessage(alert))
	assert.Equal(t, MsgUploadFailed, AlertMessage(fmt.Errorf("wrapped: %w", alert)))
	assert.Equal(t, MsgGeneric, AlertMessage(cause))

	assert.ErrorIs(t, alert, ErrUploadFailed)
	assert.ErrorIs(t, alert, cause)
	assert.Contains(t, alert.Error(), "connection refused")
}

func TestWorkflow_Stage(t *testing.T) {
	w := &Workflow{Role: "Data Scientist"}
	assert.False(t, w.Uploaded())
	assert.Equal(t, StageInit, w.Stage())

	w.FileID = "abc123"
	assert.True(t, w.Uploaded())
	assert.Equal(t, StageUploaded, w.Stage())
}

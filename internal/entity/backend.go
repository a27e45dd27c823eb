package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Multipart field names of the backend contract
const (
	FieldFile           = "file"
	FieldFileID         = "file_id"
	FieldQuery          = "query"
	FieldJobDescription = "job_description"
)

type UploadResponse struct {
	FileID  string `json:"file_id"`
	Message string `json:"message,omitempty"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}

type FitScoreResponse struct {
	Score       Score  `json:"score"`
	Suggestions string `json:"suggestions"`
}

// Score is a fit score the backend may send as a JSON string or a JSON number.
// Numbers keep their literal text, so 7 stays "7" and 7.5 stays "7.5".
type Score string

func (s *Score) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Score(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("%w: score must be a string or a number, got %s", ErrInvalidResponse, data)
	}
	*s = Score(num.String())
	return nil
}

func (s Score) String() string {
	return string(s)
}

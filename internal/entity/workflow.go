package entity

// Stage is the position of a session in the upload workflow
type Stage string

const (
	StageInit     Stage = "INIT"
	StageUploaded Stage = "UPLOADED"
)

// Workflow is the transient state of one resume session
type Workflow struct {
	Role         string `json:"role"`
	SelectedFile string `json:"selected_file,omitempty"`
	FileID       string `json:"file_id,omitempty"`
	LastQuery    string `json:"last_query,omitempty"`
	LastAnswer   string `json:"last_answer,omitempty"`
	FitScore     string `json:"fit_score,omitempty"`
	Suggestions  string `json:"suggestions,omitempty"`

	// Alert is shown once by views that render asynchronously to the action.
	Alert string `json:"alert,omitempty"`
}

// Uploaded reports whether the backend has acknowledged a resume for this session.
// Ask and fit are only available once it is true.
func (w *Workflow) Uploaded() bool {
	return w.FileID != ""
}

func (w *Workflow) Stage() Stage {
	if w.Uploaded() {
		return StageUploaded
	}
	return StageInit
}

// ResumeFile is a document chosen by the user
type ResumeFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// FitResult is the normalized outcome of a role-fit check
type FitResult struct {
	Score       string
	Suggestions string
}

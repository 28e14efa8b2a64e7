package models

// SubmissionInput is the payload sent to the analyzer for one case.
type SubmissionInput struct {
	Name     string   `json:"name" validate:"required"`
	Age      int      `json:"age" validate:"gte=0,lte=150"`
	Symptoms string   `json:"symptoms" validate:"required,max=2000"`
	Language Language `json:"language,omitempty"`
}

// AnalysisResult is the analyzer's answer to a successful triage.
type AnalysisResult struct {
	Status   string   `json:"status"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// StatusSuccess is the only application status treated as a completed triage.
const StatusSuccess = "success"

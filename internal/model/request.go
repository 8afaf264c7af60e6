package model

// CompileCourseRequest carries raw authoring-DSL text to compile.
type CompileCourseRequest struct {
	Text     string `json:"text" validate:"required"`
	CourseID string `json:"course_id,omitempty"`
	Version  int    `json:"version,omitempty" validate:"omitempty,min=1"`
}

// CompileCourseResponse is a successful compile preview.
type CompileCourseResponse struct {
	Course   *Course  `json:"course"`
	Warnings []string `json:"warnings"`
}

// InstallCourseRequest installs a course either from authoring text or from
// an already-shaped course JSON document. Exactly one source is required.
type InstallCourseRequest struct {
	Text   string  `json:"text,omitempty"`
	Course *Course `json:"course,omitempty"`
}

// SubmitReviewRequest records a graded attempt for an item.
type SubmitReviewRequest struct {
	Grade      Grade    `json:"grade" validate:"min=0,max=3"`
	PromptType ItemType `json:"promptType" validate:"required,oneof=card mcq cloze match ordering"`
	LatencyMs  *int64   `json:"latencyMs,omitempty" validate:"omitempty,min=0"`
}

// EvaluateAnswerRequest checks a free-response input against an item.
type EvaluateAnswerRequest struct {
	ItemID string `json:"itemId" validate:"required"`
	Input  string `json:"input" validate:"required"`
}

// EvaluateAnswerResponse reports the correctness verdict.
type EvaluateAnswerResponse struct {
	Correct bool `json:"correct"`
}

// SessionQueueItem is one entry of the adaptive practice queue.
type SessionQueueItem struct {
	Schedule *ScheduleEntry `json:"schedule"`
	Item     *CourseItem    `json:"item"`
	Course   *Course        `json:"course"`
}

// SessionQueueResponse is the ordered practice queue plus a generated
// session id for client-side attempt correlation.
type SessionQueueResponse struct {
	SessionID string              `json:"sessionId"`
	Queue     []*SessionQueueItem `json:"queue"`
}

// UpdateProfileRequest updates the local learner profile.
type UpdateProfileRequest struct {
	DisplayName string         `json:"displayName" validate:"required,min=1,max=64"`
	Settings    map[string]any `json:"settings,omitempty"`
}

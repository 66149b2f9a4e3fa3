// Package lessonv1 defines the lingocast.lesson.v1 messages and procedures.
package lessonv1

const LessonServiceName = "lingocast.lesson.v1.LessonService"

const (
	LessonServiceGetLessonProcedure    = "/" + LessonServiceName + "/GetLesson"
	LessonServiceStartSessionProcedure = "/" + LessonServiceName + "/StartSession"
	LessonServiceSubmitAnswerProcedure = "/" + LessonServiceName + "/SubmitAnswer"
	LessonServiceAdvanceProcedure      = "/" + LessonServiceName + "/Advance"
)

// Question omits the accepted answers; sessions judge answers server side.
type Question struct {
	ID       string `json:"id"`
	Order    int32  `json:"order"`
	Prompt   string `json:"prompt"`
	AudioURL string `json:"audioUrl,omitempty"`
}

type Lesson struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Language  string      `json:"language"`
	Questions []*Question `json:"questions"`
}

type Session struct {
	ID          string    `json:"id"`
	LessonID    string    `json:"lessonId"`
	State       string    `json:"state"`
	Current     *Question `json:"current,omitempty"`
	Remaining   int32     `json:"remaining"`
	Correct     int32     `json:"correct"`
	Incorrect   int32     `json:"incorrect"`
	LastCorrect bool      `json:"lastCorrect"`
}

type StartSessionRequest struct {
	LessonID string `json:"lessonId"`
}

type SessionRequest struct {
	SessionID string `json:"sessionId"`
}

type SubmitAnswerRequest struct {
	SessionID string `json:"sessionId"`
	Answer    string `json:"answer"`
}

type SubmitAnswerResponse struct {
	Correct bool     `json:"correct"`
	Session *Session `json:"session"`
}

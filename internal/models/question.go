package models

import "time"

// Question представляет вопрос исполнителя по тендерному запросу
// и ответ заказчика на него.
type Question struct {
	ID         int64      `json:"id"`
	RequestID  int64      `json:"requestId"`
	AuthorID   int64      `json:"authorId"`
	Question   string     `json:"question"`
	Answer     *string    `json:"answer,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	AnsweredAt *time.Time `json:"answeredAt,omitempty"`
}

// AskQuestionInput представляет структуру запроса для создания вопроса.
type AskQuestionInput struct {
	Question string `json:"question"`
}

// AnswerQuestionInput представляет структуру запроса для ответа на вопрос.
type AnswerQuestionInput struct {
	Answer string `json:"answer"`
}

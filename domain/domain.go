package domain

import "time"

// Comment - модель данных комментария к посту.
type Comment struct {
	ID     int64  `json:"id"`
	PostID int64  `json:"postId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Body   string `json:"body"`
}

// значения-заглушки черновика комментария.
const (
	DraftPostID = 1
	DraftEmail  = "user@example.com"
	DraftBody   = "Default body text for the new comment"
)

// NewCommentDraft - черновик нового комментария.
// ID - всего лишь локальная заглушка, уникальность
// на стороне сервера не гарантируется.
type NewCommentDraft struct {
	PostID int64  `json:"postId"`
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Body   string `json:"body"`
}

// NewDraft собирает черновик из значения поля ввода.
// Пустая строка - допустимое значение.
func NewDraft(name string, now time.Time) NewCommentDraft {
	return NewCommentDraft{
		PostID: DraftPostID,
		ID:     now.UnixMilli(),
		Name:   name,
		Email:  DraftEmail,
		Body:   DraftBody,
	}
}

// FetchState - состояние загрузки списка комментариев.
// Реализуется только типами StateLoading, StateError и StateReady.
type FetchState interface {
	fetchState()
}

// StateLoading - запрос отправлен, ответа ещё нет.
type StateLoading struct{}

// StateError - запрос завершился ошибкой.
type StateError struct {
	Message string
}

// StateReady - список получен, порядок сервера сохранён.
type StateReady struct {
	Items []Comment
}

func (StateLoading) fetchState() {}
func (StateError) fetchState()   {}
func (StateReady) fetchState()   {}

// Terminal сообщает, является ли состояние конечным.
func Terminal(s FetchState) bool {
	switch s.(type) {
	case StateReady, StateError:
		return true
	default:
		return false
	}
}

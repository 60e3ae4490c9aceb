// пакет submitter отправляет новый комментарий,
// собранный из единственного поля ввода
package submitter

import (
	"context"
	"sync"
	"time"

	"github.com/rtemka/agg/commentsview/domain"
	"go.uber.org/zap"
)

// SuccessMessage - уведомление об успешной отправке.
const SuccessMessage = "Data created successfully!"

// Creator - удалённый сервис, создающий комментарии.
type Creator interface {
	CreateComment(ctx context.Context, d domain.NewCommentDraft) (domain.Comment, error)
}

// Notifier показывает уведомление пользователю.
type Notifier interface {
	Notify(msg string)
}

// NotifyFunc - функция в качестве [Notifier].
type NotifyFunc func(msg string)

func (fn NotifyFunc) Notify(msg string) { fn(msg) }

// Submitter хранит значение поля ввода и отправляет его по запросу.
type Submitter struct {
	creator  Creator
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time

	mu    sync.Mutex
	value string
}

// New возвращает [*Submitter] с пустым полем ввода.
func New(c Creator, n Notifier, logger *zap.Logger) *Submitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Submitter{
		creator:  c,
		notifier: n,
		logger:   logger,
		now:      time.Now,
	}
}

// SetValue обновляет значение поля ввода.
func (s *Submitter) SetValue(v string) {
	s.mu.Lock()
	s.value = v
	s.mu.Unlock()
}

// Value возвращает текущее значение поля ввода.
func (s *Submitter) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Submit отправляет ровно один запрос на создание комментария.
// Об успехе сообщается через [Notifier], ошибка только логируется
// и возвращается вызывающему. Значение поля не сбрасывается.
func (s *Submitter) Submit(ctx context.Context) error {
	d := domain.NewDraft(s.Value(), s.now())

	c, err := s.creator.CreateComment(ctx, d)
	if err != nil {
		s.logger.Error("error in creating data",
			zap.Int64("draft_id", d.ID),
			zap.Error(err),
		)
		return err
	}

	if s.notifier != nil {
		s.notifier.Notify(SuccessMessage)
	}
	s.logger.Info("created data",
		zap.Int64("id", c.ID),
		zap.Int64("post_id", c.PostID),
		zap.String("name", c.Name),
		zap.String("email", c.Email),
		zap.String("body", c.Body),
	)
	return nil
}

// пакет fetcher загружает список комментариев и
// сообщает о состоянии загрузки
package fetcher

import (
	"context"
	"sync"
	"time"

	"github.com/rtemka/agg/commentsview/domain"
	"go.uber.org/zap"
)

// Source - удалённый источник комментариев.
type Source interface {
	Comments(ctx context.Context) ([]domain.Comment, error)
}

// Fetcher выполняет по одному запросу на каждую активацию.
// Повторов, кэширования и устранения дублей нет: при двух
// одновременных активациях побеждает ответ, пришедший последним.
type Fetcher struct {
	src    Source
	logger *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	state    domain.FetchState
	updated  time.Time // время последнего конечного состояния
	closed   bool
	onChange func(domain.FetchState)
}

// New возвращает [*Fetcher] в состоянии загрузки.
func New(src Source, logger *zap.Logger) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		src:    src,
		logger: logger,
		now:    time.Now,
		state:  domain.StateLoading{},
	}
}

// OnChange задаёт функцию, которая вызывается после каждой смены состояния.
func (f *Fetcher) OnChange(fn func(domain.FetchState)) {
	f.mu.Lock()
	f.onChange = fn
	f.mu.Unlock()
}

// State возвращает текущее состояние.
func (f *Fetcher) State() domain.FetchState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Snapshot возвращает текущее состояние вместе со временем,
// когда было получено последнее конечное состояние.
// Для конечного состояния время всегда задано.
func (f *Fetcher) Snapshot() (domain.FetchState, time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state, f.updated
}

// Activate переводит состояние в загрузку и отправляет запрос.
// Возвращаемый канал закрывается, когда запрос завершён.
func (f *Fetcher) Activate(ctx context.Context) <-chan struct{} {
	f.set(domain.StateLoading{})

	done := make(chan struct{})
	go func() {
		defer close(done)

		items, err := f.src.Comments(ctx)
		if err != nil {
			f.logger.Error("error fetching data", zap.Error(err))
			f.set(domain.StateError{Message: err.Error()})
			return
		}
		if items == nil {
			items = []domain.Comment{}
		}
		f.set(domain.StateReady{Items: items})
	}()

	return done
}

// Close отключает [*Fetcher] от представления.
// Ответы, пришедшие после закрытия, отбрасываются.
func (f *Fetcher) Close() {
	f.mu.Lock()
	f.closed = true
	f.onChange = nil
	f.mu.Unlock()
}

func (f *Fetcher) set(s domain.FetchState) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		f.logger.Debug("state discarded: fetcher is closed")
		return
	}
	f.state = s
	if domain.Terminal(s) {
		f.updated = f.now()
	}
	fn := f.onChange
	f.mu.Unlock()

	if fn != nil {
		fn(s)
	}
}

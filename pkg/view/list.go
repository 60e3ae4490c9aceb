package view

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rtemka/agg/commentsview/domain"
	"github.com/rtemka/agg/commentsview/pkg/fetcher"
	"github.com/shurcooL/htmlg"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// LoadingText показывается, пока комментарии загружаются.
const LoadingText = "Loading..."

// ListView показывает комментарии к посту.
// Загрузка выполняется один раз за монтирование.
type ListView struct {
	fetcher *fetcher.Fetcher

	mu        sync.Mutex
	mounted   bool
	unmounted bool
	done      <-chan struct{}
}

// NewListView возвращает несмонтированное представление над src.
func NewListView(src fetcher.Source, logger *zap.Logger) *ListView {
	return &ListView{
		fetcher: fetcher.New(src, logger),
	}
}

// Mount запускает загрузку. Запрос отправляет только первый вызов,
// последующие возвращают тот же канал. После Unmount ничего не делает.
func (v *ListView) Mount(ctx context.Context) <-chan struct{} {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch {
	case v.unmounted:
		done := make(chan struct{})
		close(done)
		return done
	case v.mounted:
		return v.done
	}
	v.mounted = true
	v.done = v.fetcher.Activate(ctx)
	return v.done
}

// Unmount снимает представление. Опоздавший ответ отбрасывается.
func (v *ListView) Unmount() {
	v.mu.Lock()
	v.unmounted = true
	v.mu.Unlock()
	v.fetcher.Close()
}

func (v *ListView) State() domain.FetchState {
	return v.fetcher.State()
}

// FetchedAt возвращает время получения конечного состояния
// либо нулевое время, пока его нет.
func (v *ListView) FetchedAt() time.Time {
	_, at := v.fetcher.Snapshot()
	return at
}

func (v *ListView) Render() []*html.Node {
	ns := []*html.Node{heading("API Data")}

	state, at := v.fetcher.Snapshot()
	switch s := state.(type) {
	case domain.StateReady:
		text := fmt.Sprintf("%d comments", len(s.Items))
		if !at.IsZero() {
			text += ", fetched " + humanize.Time(at)
		}
		ns = append(ns, element(atom.P, class("fetched"), htmlg.Text(text)))
		ns = append(ns, CommentList{Comments: s.Items}.Render()...)
	case domain.StateError:
		ns = append(ns, element(atom.P, class("error"), htmlg.Text(s.Message)))
	default:
		ns = append(ns, element(atom.Div, class("loading"), htmlg.Text(LoadingText)))
	}
	return ns
}

// CommentList - список комментариев.
type CommentList struct {
	Comments []domain.Comment
}

func (l CommentList) Render() []*html.Node {
	ul := element(atom.Ul, class("comments"))
	for _, c := range l.Comments {
		li := element(atom.Li, []html.Attribute{{Key: atom.Id.String(), Val: fmt.Sprintf("comment-%d", c.ID)}},
			element(atom.P, nil, htmlg.Strong(c.Name)),
			element(atom.P, class("email"), htmlg.Text(c.Email)),
			element(atom.P, nil, htmlg.Text(c.Body)),
		)
		ul.AppendChild(li)
	}
	return []*html.Node{ul}
}

// пакет api предоставляет маршрутизатор веб-представлений комментариев
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rtemka/agg/commentsview/domain"
	"github.com/rtemka/agg/commentsview/pkg/client"
	"github.com/rtemka/agg/commentsview/pkg/fetcher"
	"github.com/rtemka/agg/commentsview/pkg/middleware"
	"github.com/rtemka/agg/commentsview/pkg/submitter"
	"github.com/rtemka/agg/commentsview/pkg/view"

	"go.uber.org/zap"
)

var ErrBadInput = errors.New("invalid input")

// DefaultRenderWait - сколько страница ждёт окончания загрузки.
const DefaultRenderWait = 5 * time.Second

// Remote - удалённый сервис комментариев.
type Remote interface {
	fetcher.Source
	submitter.Creator
}

// API веб-представлений.
type API struct {
	router *mux.Router
	logger *zap.Logger
	remote Remote
	// RenderWait - сколько обработчик страницы ждёт конечного
	// состояния, прежде чем отрисовать индикатор загрузки.
	RenderWait time.Duration
}

// New возвращает [*API].
func New(remote Remote, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	api := API{
		router:     mux.NewRouter(),
		logger:     logger,
		remote:     remote,
		RenderWait: DefaultRenderWait,
	}
	api.endpoints()
	return &api
}

// ServeHTTP - таким образом, мы можем использовать
// сам [*API] в качестве мультиплексора на сервере.
func (api *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	api.router.ServeHTTP(w, r)
}

func (api *API) endpoints() {
	api.router.Use(
		middleware.RequestID(middleware.FromQuery),
		api.forwardRequestIDMiddleware,
		middleware.WideEventLog(api.logger),
		middleware.Closer,
		middleware.SecHeaders,
	)
	api.router.Handle("/", http.RedirectHandler("/comments", http.StatusFound)).Methods(http.MethodGet)
	api.router.HandleFunc("/comments", api.handleCommentsPage()).Methods(http.MethodGet)
	api.router.HandleFunc("/comments/state", api.handleCommentsState()).Methods(http.MethodGet)
	api.router.HandleFunc("/comments/new", api.handleCreatePage()).Methods(http.MethodGet)
	api.router.HandleFunc("/comments/new", api.handleCreateSubmit()).Methods(http.MethodPost)
}

// forwardRequestIDMiddleware передаёт id входящего запроса
// в исходящие запросы к удалённому сервису.
func (api *API) forwardRequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := client.WithRequestID(r.Context(), middleware.RequestIDFrom(r.Context()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WritePage отрисовывает HTML-страницу из компонентов.
func (api *API) WritePage(w http.ResponseWriter, title string, code int, cs ...view.Component) {
	w.Header().Set("Content-Type", "text/html;charset=utf-8")
	w.WriteHeader(code)
	if err := view.WritePage(w, title, cs...); err != nil {
		middleware.SetInternalError(w, err)
	}
}

// mountList монтирует представление списка и ждёт конечного
// состояния не дольше RenderWait. Представление размонтируется
// вызывающим.
func (api *API) mountList(r *http.Request) *view.ListView {
	v := view.NewListView(api.remote, api.logger)

	t := time.NewTimer(api.RenderWait)
	defer t.Stop()

	select {
	case <-v.Mount(r.Context()):
	case <-t.C:
	case <-r.Context().Done():
	}
	return v
}

// handleCommentsPage отрисовывает список комментариев.
func (api *API) handleCommentsPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := api.mountList(r)
		defer v.Unmount()

		if _, ok := v.State().(domain.StateLoading); ok {
			w.Header().Set("Refresh", "2")
		}
		api.WritePage(w, "Comments", http.StatusOK, v)
	}
}

// stateResponse - состояние загрузки в JSON.
type stateResponse struct {
	State   string           `json:"state"`
	Message string           `json:"message,omitempty"`
	Items   []domain.Comment `json:"items,omitempty"`
}

func toStateResponse(s domain.FetchState) stateResponse {
	switch s := s.(type) {
	case domain.StateReady:
		return stateResponse{State: "ready", Items: s.Items}
	case domain.StateError:
		return stateResponse{State: "error", Message: s.Message}
	default:
		return stateResponse{State: "loading"}
	}
}

// handleCommentsState отдаёт состояние загрузки списка в JSON.
func (api *API) handleCommentsState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := api.mountList(r)
		defer v.Unmount()

		middleware.WriteJSON(w, toStateResponse(v.State()), http.StatusOK)
	}
}

// handleCreatePage отрисовывает пустую форму.
func (api *API) handleCreatePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := view.NewCreateView(api.remote, r.URL.Path, api.logger)
		api.WritePage(w, "Create New Data", http.StatusOK, v)
	}
}

// handleCreateSubmit отправляет комментарий из формы.
// При ошибке пользователь видит ту же форму без уведомления,
// ошибка только логируется.
func (api *API) handleCreateSubmit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			middleware.WriteJSONError(w, ErrBadInput, http.StatusBadRequest)
			return
		}

		v := view.NewCreateView(api.remote, r.URL.Path, api.logger)
		v.Input(r.PostForm.Get(view.NameField))

		if err := v.Submit(r.Context()); err != nil {
			middleware.SetInternalError(w, err)
		}

		api.WritePage(w, "Create New Data", http.StatusOK, v)
	}
}

// пакет mockapi предоставляет локальную заглушку
// REST API комментариев jsonplaceholder
package mockapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rtemka/agg/commentsview/domain"
	"github.com/rtemka/agg/commentsview/pkg/middleware"

	"go.uber.org/zap"
)

var ErrBadInput = errors.New("invalid input")

// CreatedID - id, который сервис присваивает созданному комментарию.
const CreatedID = 501

// API - заглушка REST API.
type API struct {
	router   *mux.Router
	logger   *zap.Logger
	comments []domain.Comment
}

// New возвращает [*API], отдающий comments.
// Если comments == nil, используются [Testcoms].
func New(comments []domain.Comment, logger *zap.Logger) *API {
	if comments == nil {
		comments = Testcoms
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	api := API{
		router:   mux.NewRouter(),
		logger:   logger,
		comments: comments,
	}
	api.endpoints()
	return &api
}

func (api *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	api.router.ServeHTTP(w, r)
}

func (api *API) endpoints() {
	api.router.Use(
		middleware.RequestID(middleware.FromHeader),
		middleware.WideEventLog(api.logger),
		middleware.Closer,
		middleware.JSONHeaders,
	)
	api.router.HandleFunc("/posts/{postId:[0-9]+}/comments", api.handleCommentCreate()).Methods(http.MethodPost)
	api.router.HandleFunc("/posts/{postId:[0-9]+}/comments", api.handleCommentRead()).Methods(http.MethodGet)
}

// handleCommentCreate возвращает присланный комментарий обратно,
// ничего не сохраняя.
func (api *API) handleCommentCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		postID, err := strconv.ParseInt(mux.Vars(r)["postId"], 10, 64)
		if err != nil {
			middleware.WriteJSONError(w, fmt.Errorf("%w: parsing 'postId' %v", ErrBadInput, err), http.StatusBadRequest)
			return
		}

		var c domain.Comment
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			middleware.WriteJSONError(w, fmt.Errorf("%w: %v", ErrBadInput, err), http.StatusBadRequest)
			return
		}
		if c.ID == 0 {
			c.ID = CreatedID
		}
		if c.PostID == 0 {
			c.PostID = postID
		}

		middleware.WriteJSON(w, c, http.StatusCreated)
	}
}

// handleCommentRead отдаёт комментарии к посту.
func (api *API) handleCommentRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		postID, err := strconv.ParseInt(mux.Vars(r)["postId"], 10, 64)
		if err != nil {
			middleware.WriteJSONError(w, fmt.Errorf("%w: parsing 'postId' %v", ErrBadInput, err), http.StatusBadRequest)
			return
		}

		coms := make([]domain.Comment, 0, len(api.comments))
		for i := range api.comments {
			if api.comments[i].PostID == postID {
				coms = append(coms, api.comments[i])
			}
		}

		middleware.WriteJSON(w, coms, http.StatusOK)
	}
}

// Testcoms можно использовать для тестов.
var Testcoms = []domain.Comment{
	{
		ID:     1,
		PostID: 1,
		Name:   "id labore ex et quam laborum",
		Email:  "Eliseo@gardner.biz",
		Body:   "laudantium enim quasi est quidem magnam voluptate ipsam eos\ntempora quo necessitatibus",
	},
	{
		ID:     2,
		PostID: 1,
		Name:   "quo vero reiciendis velit similique earum",
		Email:  "Jayne_Kuhic@sydney.com",
		Body:   "est natus enim nihil est dolore omnis voluptatem numquam\net omnis occaecati quod ullam at",
	},
	{
		ID:     3,
		PostID: 1,
		Name:   "odio adipisci rerum aut animi",
		Email:  "Nikita@garfield.biz",
		Body:   "quia molestiae reprehenderit quasi aspernatur\naut expedita occaecati aliquam eveniet laudantium",
	},
	{
		ID:     6,
		PostID: 2,
		Name:   "et fugit eligendi deleniti quidem qui sint nihil autem",
		Email:  "Presley.Mueller@myrl.com",
		Body:   "doloribus at sed quis culpa deserunt consectetur qui praesentium",
	},
}

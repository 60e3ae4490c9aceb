package view

import (
	"context"
	"sync"

	"github.com/rtemka/agg/commentsview/pkg/submitter"
	"github.com/shurcooL/htmlg"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NameField - поле формы с именем нового комментария.
const NameField = "name"

// Flash копит уведомления до отрисовки.
type Flash struct {
	mu   sync.Mutex
	msgs []string
}

// Notify реализует [submitter.Notifier].
func (f *Flash) Notify(msg string) {
	f.mu.Lock()
	f.msgs = append(f.msgs, msg)
	f.mu.Unlock()
}

// Pop возвращает накопленные сообщения и очищает их.
func (f *Flash) Pop() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := f.msgs
	f.msgs = nil
	return msgs
}

func (f *Flash) Render() []*html.Node {
	var ns []*html.Node
	for _, m := range f.Pop() {
		ns = append(ns, element(atom.P, class("flash"), htmlg.Text(m)))
	}
	return ns
}

// CreateView хранит состояние формы создания.
type CreateView struct {
	Action string // адрес, куда отправляется форма

	submitter *submitter.Submitter
	flash     *Flash
}

// NewCreateView возвращает представление с пустым полем.
func NewCreateView(c submitter.Creator, action string, logger *zap.Logger) *CreateView {
	f := &Flash{}
	return &CreateView{
		Action:    action,
		submitter: submitter.New(c, f, logger),
		flash:     f,
	}
}

// Input заменяет значение поля.
func (v *CreateView) Input(s string) {
	v.submitter.SetValue(s)
}

func (v *CreateView) Value() string {
	return v.submitter.Value()
}

// Submit отправляет текущее значение. При ошибке пользователь
// ничего не видит, ошибка только попадает в журнал.
func (v *CreateView) Submit(ctx context.Context) error {
	return v.submitter.Submit(ctx)
}

func (v *CreateView) Render() []*html.Node {
	ns := []*html.Node{heading("Create New Data")}
	ns = append(ns, v.flash.Render()...)

	form := element(atom.Form, []html.Attribute{
		{Key: atom.Method.String(), Val: "post"},
		{Key: atom.Action.String(), Val: v.Action},
	},
		element(atom.Input, []html.Attribute{
			{Key: atom.Type.String(), Val: "text"},
			{Key: atom.Name.String(), Val: NameField},
			{Key: atom.Value.String(), Val: v.Value()},
			{Key: atom.Placeholder.String(), Val: "Enter name"},
		}),
		element(atom.Button, []html.Attribute{{Key: atom.Type.String(), Val: "submit"}}, htmlg.Text("Submit")),
	)
	return append(ns, form)
}

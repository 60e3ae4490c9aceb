// пакет view содержит представления, которые хранят своё
// состояние и умеют отрисовывать себя в HTML
package view

import (
	"io"

	"github.com/shurcooL/htmlg"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Component - всё, что отрисовывается в HTML-узлы.
type Component interface {
	Render() []*html.Node
}

// WritePage пишет HTML-документ целиком,
// тело которого составляют отрисованные компоненты.
func WritePage(w io.Writer, title string, cs ...Component) error {
	var body []*html.Node
	for _, c := range cs {
		body = append(body, c.Render()...)
	}

	_, err := io.WriteString(w, `<!DOCTYPE html><html><head><meta charset="utf-8"><title>`)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, html.EscapeString(title)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, `</title></head><body>`); err != nil {
		return err
	}
	if _, err := io.WriteString(w, string(htmlg.Render(body...))); err != nil {
		return err
	}
	_, err = io.WriteString(w, `</body></html>`)
	return err
}

func element(a atom.Atom, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a, Attr: attrs}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func class(v string) []html.Attribute {
	return []html.Attribute{{Key: atom.Class.String(), Val: v}}
}

func heading(text string) *html.Node {
	return element(atom.H1, nil, htmlg.Text(text))
}

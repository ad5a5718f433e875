package assistant

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/rcliao/page-enhancer/internal/dom"
)

const widgetSelector = ".itrm-chatbot"

// Labels are the visible strings of the widget.
type Labels struct {
	Title       string `koanf:"title" yaml:"title"`
	Greeting    string `koanf:"greeting" yaml:"greeting"`
	Placeholder string `koanf:"placeholder" yaml:"placeholder"`
	Send        string `koanf:"send" yaml:"send"`
	Toggle      string `koanf:"toggle" yaml:"toggle"`
	Close       string `koanf:"close" yaml:"close"`
}

// DefaultLabels returns the stock widget strings.
func DefaultLabels() Labels {
	return Labels{
		Title:       "Site Assistant",
		Greeting:    "Hello. I can answer basic questions using the content of this page.",
		Placeholder: "Ask your question...",
		Send:        "Send",
		Toggle:      "Chat",
		Close:       "Close",
	}
}

func (l Labels) withDefaults() Labels {
	d := DefaultLabels()
	if l.Title == "" {
		l.Title = d.Title
	}
	if l.Greeting == "" {
		l.Greeting = d.Greeting
	}
	if l.Placeholder == "" {
		l.Placeholder = d.Placeholder
	}
	if l.Send == "" {
		l.Send = d.Send
	}
	if l.Toggle == "" {
		l.Toggle = d.Toggle
	}
	if l.Close == "" {
		l.Close = d.Close
	}
	return l
}

// Render injects the widget into the page body with the restored history.
// It returns false when the page already carries a widget.
func (s *Session) Render(doc *goquery.Document) bool {
	if doc.Find(widgetSelector).Length() > 0 {
		return false
	}
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return false
	}

	l := s.opts.Labels

	chips := dom.Element(atom.Div, "class", "itrm-chatbot__chips")
	for _, c := range s.Chips() {
		dom.Append(chips, dom.Append(
			dom.Element(atom.Button, "class", "itrm-chatbot__chip", "type", "button", "data-question", c),
			dom.Text(c),
		))
	}

	msgs := dom.Element(atom.Div, "class", "itrm-chatbot__msgs", "id", "itrmChatMsgs", "aria-live", "polite")
	dom.Append(msgs, message("bot", l.Greeting))
	for _, m := range s.history {
		dom.Append(msgs, message(m.Role, m.Text))
	}

	form := dom.Append(
		dom.Element(atom.Form, "class", "itrm-chatbot__form", "id", "itrmChatForm"),
		dom.Element(atom.Input,
			"class", "itrm-chatbot__input",
			"id", "itrmChatInput",
			"type", "text",
			"autocomplete", "off",
			"placeholder", l.Placeholder,
			"aria-label", l.Placeholder,
		),
		dom.Append(dom.Element(atom.Button, "class", "itrm-chatbot__send", "type", "submit"), dom.Text(l.Send)),
	)

	head := dom.Append(
		dom.Element(atom.Div, "class", "itrm-chatbot__head"),
		dom.Text(l.Title),
		dom.Append(
			dom.Element(atom.Button, "class", "itrm-chatbot__close", "type", "button", "aria-label", l.Close),
			dom.Text("×"),
		),
	)

	panel := dom.Append(
		dom.Element(atom.Div, "class", "itrm-chatbot__panel", "id", "itrmChatPanel", "role", "dialog", "aria-label", l.Title),
		head, chips, msgs, form,
	)

	toggle := dom.Append(
		dom.Element(atom.Button,
			"class", "itrm-chatbot__toggle",
			"type", "button",
			"id", "itrmChatToggle",
			"aria-controls", "itrmChatPanel",
			"aria-expanded", s.Expanded(),
		),
		dom.Text(l.Toggle),
	)

	root := dom.Append(dom.Element(atom.Div, "class", "itrm-chatbot", "data-session", s.id), panel, toggle)
	if s.open {
		dom.AddClass(root, "open")
	}

	body.AppendNodes(root)
	return true
}

func message(role, text string) *html.Node {
	return dom.Append(dom.Element(atom.P, "class", "itrm-chatbot__msg "+role), dom.Text(text))
}

package livetest

import (
	"context"
	"strconv"
	"testing"

	"github.com/vango-dev/livedom/pkg/dom"
	"github.com/vango-dev/livedom/pkg/el"
	"github.com/vango-dev/livedom/pkg/param"
	"github.com/vango-dev/livedom/pkg/server"
)

func counterApp(s *server.Session) (el.Element, error) {
	b := s.Builder()
	count := 0
	name := ""
	label := param.Func(func() string { return "clicked " + strconv.Itoa(count) })
	button, err := b.El("button", el.Attrs{
		"onclick":  func() { count++ },
		"disabled": param.Func(func() bool { return count >= 2 }),
	}, label)
	if err != nil {
		return nil, err
	}
	input, err := b.El("input", el.Attrs{
		"name":    "name",
		"oninput": func(e *dom.Event) { name = e.Value() },
	})
	if err != nil {
		return nil, err
	}
	greeting, err := b.El("p", nil, param.Func(func() string { return "hello " + name }))
	if err != nil {
		return nil, err
	}
	return b.El("div", nil, button, input, greeting)
}

func TestMountAndClick(t *testing.T) {
	s := Mount(t, counterApp)
	button := s.FindTag("button")
	ExpectText(t, button, "clicked 0")
	ExpectNoAttribute(t, button, "disabled")

	s.Click(button)
	s.Click(button)
	ExpectText(t, button, "clicked 2")
	ExpectAttribute(t, button, "disabled", "disabled")
}

func TestInput(t *testing.T) {
	s := Mount(t, counterApp)
	s.Input(s.FindAttr("name", "name"), "gopher")
	ExpectContains(t, s.Body(), "<p>hello gopher</p>")
	ExpectNotContains(t, s.Body(), "hello </p>")
	if s.FindText("p", "hello gopher") == nil {
		t.Error("FindText() = nil")
	}
}

func TestFindAll(t *testing.T) {
	s := Mount(t, counterApp)
	if got := len(s.FindAll(IsTag("input"))); got != 1 {
		t.Errorf("len(FindAll(input)) = %d, want 1", got)
	}
	if s.Find(IsTag("table")) != nil {
		t.Error("Find(table) != nil")
	}
}

func TestWithMiddleware(t *testing.T) {
	var passes, patches int
	mw := func(ctx context.Context, s *server.Session, next func(context.Context) error) error {
		passes++
		err := next(ctx)
		patches += s.PendingPatches()
		return err
	}
	s := Mount(t, counterApp, WithMiddleware(mw))
	s.Click(s.FindTag("button"))
	if passes != 1 {
		t.Errorf("passes = %d, want 1", passes)
	}
	if patches == 0 {
		t.Error("click recorded no patches")
	}
}

func TestWithHooks(t *testing.T) {
	var started, ended int
	s := Mount(t, counterApp, WithHooks(server.Hooks{
		OnSessionStart: func(*server.Session) { started++ },
		OnSessionEnd:   func(*server.Session) { ended++ },
	}))
	s.Close()
	if started != 1 || ended != 1 {
		t.Errorf("started, ended = %d, %d, want 1, 1", started, ended)
	}
}

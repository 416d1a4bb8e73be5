package byte90

import (
	"time"

	"github.com/ajanata/textbuf"
)

// The whole menu runs off one button: Click moves the selection,
// DoubleClick activates it, LongPress goes back. Submenus and option
// pickers push contexts onto a bounded stack.
const maxMenuDepth = 5

// MenuItem is implemented by the closed set of item kinds below.
// Dispatch is a type switch, not a method set; a new kind means
// touching activation and rendering anyway.
type MenuItem interface {
	label() string
}

// SubMenu opens its items as a new menu context when activated.
type SubMenu struct {
	Title string
	Items []MenuItem
}

func (m *SubMenu) label() string { return m.Title }

// ActionItem runs a closure when activated.
type ActionItem struct {
	Label  string
	Invoke func()
}

func (a *ActionItem) label() string { return a.Label }

// ToggleItem flips a boolean through its owner's accessors. The menu
// never caches the value; Get is called on every render.
type ToggleItem struct {
	Label string
	Get   func() bool
	Set   func(bool)
}

func (t *ToggleItem) label() string { return t.Label }

// OptionItem picks one entry from a fixed list. Activating it opens a
// picker context seeded at the current value; picking an entry calls
// Apply and pops back.
type OptionItem struct {
	Label   string
	Options []string
	Active  func() int
	Apply   func(int)
}

func (o *OptionItem) label() string { return o.Label }

// BackItem pops the current context. Back is the shared instance
// menus append to their item lists.
type BackItem struct{}

func (b *BackItem) label() string { return "Back" }

var Back = &BackItem{}

// menuFeedback tells the device what a button press did, so it can
// play the matching cue and notice when the menu closed itself.
type menuFeedback uint8

const (
	menuIgnored menuFeedback = iota
	menuNavigated
	menuActivated
	menuClosed
)

// menuContext is one level of the stack: either a list of items or,
// when opt is set, an option picker.
type menuContext struct {
	title     string
	items     []MenuItem
	opt       *OptionItem
	optActive int
	selected  int
	top       int
}

func (c *menuContext) length() int {
	if c.opt != nil {
		return len(c.opt.Options)
	}
	return len(c.items)
}

type menuStack struct {
	log     Logger
	root    *SubMenu
	timeout time.Duration

	stack     []*menuContext
	lastInput time.Time
}

func newMenuStack(log Logger, root *SubMenu, timeout time.Duration) *menuStack {
	return &menuStack{
		log:     log,
		root:    root,
		timeout: timeout,
		stack:   make([]*menuContext, 0, maxMenuDepth),
	}
}

func (m *menuStack) isOpen() bool { return len(m.stack) > 0 }

func (m *menuStack) depth() int { return len(m.stack) }

// open resets the stack to the root context. The selection always
// starts at the top; nobody remembers where they were last week.
func (m *menuStack) open(now time.Time) {
	m.stack = m.stack[:0]
	m.push(&menuContext{title: m.root.Title, items: m.root.Items})
	m.lastInput = now
}

func (m *menuStack) close() {
	m.stack = m.stack[:0]
}

// expired reports whether the idle timeout has elapsed since the last
// button press. The device treats this the same as backing all the
// way out.
func (m *menuStack) expired(now time.Time) bool {
	return m.isOpen() && m.timeout > 0 && now.Sub(m.lastInput) >= m.timeout
}

func (m *menuStack) handleButton(ev ButtonEvent, now time.Time) menuFeedback {
	if !m.isOpen() {
		return menuIgnored
	}
	m.lastInput = now
	ctx := m.stack[len(m.stack)-1]
	switch ev {
	case ButtonClick:
		if n := ctx.length(); n > 0 {
			ctx.selected = (ctx.selected + 1) % n
		}
		return menuNavigated
	case ButtonDoubleClick:
		return m.activate(ctx)
	case ButtonLongPress:
		m.pop()
		if !m.isOpen() {
			return menuClosed
		}
		return menuNavigated
	}
	return menuIgnored
}

func (m *menuStack) activate(ctx *menuContext) menuFeedback {
	if ctx.opt != nil {
		ctx.opt.Apply(ctx.selected)
		m.pop()
		return menuActivated
	}
	if ctx.selected >= len(ctx.items) {
		return menuIgnored
	}
	switch item := ctx.items[ctx.selected].(type) {
	case *SubMenu:
		if !m.push(&menuContext{title: item.Title, items: item.Items}) {
			return menuIgnored
		}
		return menuActivated
	case *ActionItem:
		item.Invoke()
		return menuActivated
	case *ToggleItem:
		item.Set(!item.Get())
		return menuActivated
	case *OptionItem:
		c := &menuContext{title: item.Label, opt: item}
		if item.Active != nil {
			c.optActive = item.Active()
			if c.optActive < 0 || c.optActive >= len(item.Options) {
				c.optActive = 0
			}
			c.selected = c.optActive
		}
		if !m.push(c) {
			return menuIgnored
		}
		return menuActivated
	case *BackItem:
		m.pop()
		if !m.isOpen() {
			return menuClosed
		}
		return menuNavigated
	}
	return menuIgnored
}

func (m *menuStack) push(ctx *menuContext) bool {
	if len(m.stack) >= maxMenuDepth {
		m.log.Infof("menu: depth %d, refusing to nest deeper", len(m.stack))
		return false
	}
	m.stack = append(m.stack, ctx)
	return true
}

func (m *menuStack) pop() {
	if len(m.stack) > 0 {
		m.stack = m.stack[:len(m.stack)-1]
	}
}

// render draws the top context into the text buffer: inverted title on
// line 0, then a window of rows with the selection inverted. The
// window follows the selection so it stays visible.
func (m *menuStack) render(buf *textbuf.Buffer) {
	if !m.isOpen() {
		return
	}
	buf.Clear()
	ctx := m.stack[len(m.stack)-1]
	_, h := buf.Size()
	visible := int(h) - 1
	if visible < 1 {
		return
	}
	if ctx.selected < ctx.top {
		ctx.top = ctx.selected
	}
	if ctx.selected >= ctx.top+visible {
		ctx.top = ctx.selected - visible + 1
	}

	_ = buf.SetLineInverse(0, ctx.title)
	if ctx.opt != nil {
		for i := 0; i+ctx.top < len(ctx.opt.Options) && i < visible; i++ {
			idx := i + ctx.top
			prefix := "  "
			if idx == ctx.optActive {
				prefix = "* "
			}
			m.renderLine(buf, int16(i+1), prefix+ctx.opt.Options[idx], idx == ctx.selected)
		}
		return
	}
	for i := 0; i+ctx.top < len(ctx.items) && i < visible; i++ {
		idx := i + ctx.top
		item := ctx.items[idx]
		var prefix string
		switch it := item.(type) {
		case *SubMenu:
			prefix = "+ "
		case *ActionItem:
			prefix = "* "
		case *OptionItem:
			prefix = "> "
		case *ToggleItem:
			if it.Get() {
				prefix = "[x] "
			} else {
				prefix = "[ ] "
			}
		case *BackItem:
			prefix = "< "
		}
		m.renderLine(buf, int16(i+1), prefix+item.label(), idx == ctx.selected)
	}
}

func (m *menuStack) renderLine(buf *textbuf.Buffer, line int16, text string, selected bool) {
	if selected {
		_ = buf.SetLineInverse(line, text)
	} else {
		_ = buf.SetLine(line, text)
	}
}

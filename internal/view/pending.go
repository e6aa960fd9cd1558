package view

// Action is a user action awaiting the server.
type Action int

const (
	ActionNone Action = iota
	ActionComplete
	ActionReopen
	ActionClaim
)

func (a Action) String() string {
	switch a {
	case ActionComplete:
		return "completing"
	case ActionReopen:
		return "reopening"
	case ActionClaim:
		return "claiming"
	}
	return "idle"
}

// ClaimHighlight is the light-green tint of a row being claimed.
const ClaimHighlight = "#e0ffe0"

// Style is the visual overlay on a row.
type Style struct {
	Opacity    float64
	Background string
	Transition string
}

var DefaultStyle = Style{Opacity: 1}

// Faded reports whether the row is drawn dimmed.
func (s Style) Faded() bool { return s.Opacity < 1 }

// OptimisticStyle is the style applied the moment an action starts.
func OptimisticStyle(a Action) Style {
	switch a {
	case ActionComplete:
		return Style{Opacity: 0.5, Transition: "opacity 0.5s ease-out"}
	case ActionReopen:
		return Style{Opacity: 1, Transition: "opacity 0.5s ease-in"}
	case ActionClaim:
		return Style{Opacity: 1, Background: ClaimHighlight, Transition: "background-color 0.5s ease-out"}
	}
	return DefaultStyle
}

type RowKey struct {
	Section string
	ChoreID int
}

type RowState struct {
	Action Action
	Style  Style
	Prev   Style
	// Target is the checkbox state the user picked. It is absolute, so it
	// stays right when a newer snapshot lands while the action is in flight.
	Target    bool
	HasTarget bool
	InFlight  bool

	prevTarget    bool
	prevHasTarget bool
}

// Checked is the checkbox state to show for a row whose snapshot says
// completed.
func (rs RowState) Checked(completed bool) bool {
	if rs.HasTarget {
		return rs.Target
	}
	return completed
}

// Pending tracks per-row action state between a submit and its outcome.
type Pending struct {
	rows map[RowKey]RowState
}

func NewPending() *Pending {
	return &Pending{rows: map[RowKey]RowState{}}
}

// Begin marks key in flight and returns the optimistic style now in effect.
func (p *Pending) Begin(key RowKey, a Action) Style {
	prev := p.State(key)
	st := OptimisticStyle(a)
	p.rows[key] = RowState{
		Action:        a,
		Style:         st,
		Prev:          prev.Style,
		Target:        prev.Target,
		HasTarget:     prev.HasTarget,
		InFlight:      true,
		prevTarget:    prev.Target,
		prevHasTarget: prev.HasTarget,
	}
	return st
}

// BeginToggle starts a completion change on a checkbox row. checked is the
// state the user just selected.
func (p *Pending) BeginToggle(key RowKey, checked bool) Style {
	a := ActionReopen
	if checked {
		a = ActionComplete
	}
	st := p.Begin(key, a)
	rs := p.rows[key]
	rs.Target, rs.HasTarget = checked, true
	p.rows[key] = rs
	return st
}

// Succeed ends the action. The optimistic style stays until the next
// snapshot replaces the row.
func (p *Pending) Succeed(key RowKey) {
	if rs, ok := p.rows[key]; ok {
		rs.InFlight = false
		rs.Action = ActionNone
		p.rows[key] = rs
	}
}

// Fail ends the action. With rollback the row returns to the style it had
// before Begin; otherwise the optimistic style is kept.
func (p *Pending) Fail(key RowKey, rollback bool) {
	rs, ok := p.rows[key]
	if !ok {
		return
	}
	rs.InFlight = false
	rs.Action = ActionNone
	if rollback {
		rs.Style = rs.Prev
		rs.Target, rs.HasTarget = rs.prevTarget, rs.prevHasTarget
	}
	p.rows[key] = rs
}

func (p *Pending) Style(key RowKey) Style {
	if rs, ok := p.rows[key]; ok {
		return rs.Style
	}
	return DefaultStyle
}

func (p *Pending) State(key RowKey) RowState {
	if rs, ok := p.rows[key]; ok {
		return rs
	}
	return RowState{Style: DefaultStyle}
}

// Reset forgets every row that is not in flight. It is called when a fresh
// snapshot replaces the lists.
func (p *Pending) Reset() {
	for k, rs := range p.rows {
		if !rs.InFlight {
			delete(p.rows, k)
		}
	}
}

// InFlight counts rows with an outstanding action.
func (p *Pending) InFlight() int {
	n := 0
	for _, rs := range p.rows {
		if rs.InFlight {
			n++
		}
	}
	return n
}

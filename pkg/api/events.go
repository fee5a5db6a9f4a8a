package api

import (
	"iter"
	"slices"
	"time"
)

// ReceiveFunc decides whether an incoming external message activates a
// Mailbox. It is stored here and invoked only by the runtime.
type ReceiveFunc func(message any) bool

// Start is the process start event. A process definition has exactly one.
// Several successors model parallel activation at launch.
type Start struct {
	node
	next []Node
}

// NewStart returns an empty start event.
func NewStart() *Start {
	return &Start{node: node{kind: KindStart}}
}

// Activate appends a successor activated when the process starts.
func (s *Start) Activate(n Node) *Start {
	s.mutate()
	s.next = append(s.next, mustNode(n, "Start.Activate"))
	return s
}

func (s *Start) Role(role string) *Start {
	s.setRole(role)
	return s
}

func (s *Start) Named(name string) *Start {
	s.setName(name)
	return s
}

func (s *Start) Outgoing() iter.Seq[Edge] { return nextEdges(s, &s.next) }

// End is the terminal event. It has no successors and no way to add one.
type End struct {
	node
}

// NewEnd returns an end event.
func NewEnd() *End {
	return &End{node: node{kind: KindEnd}}
}

func (e *End) Role(role string) *End {
	e.setRole(role)
	return e
}

func (e *End) Named(name string) *End {
	e.setName(name)
	return e
}

// Outgoing always yields nothing.
func (e *End) Outgoing() iter.Seq[Edge] {
	return func(func(Edge) bool) {}
}

// Delay is the firing delay of a Timer. Each component is optional; nil
// means the component was not configured.
type Delay struct {
	Minutes *int
	Hours   *int
	Days    *int
}

// IsZero reports whether no component is set.
func (d Delay) IsZero() bool {
	return d.Minutes == nil && d.Hours == nil && d.Days == nil
}

// Duration sums the configured components. Converting it into a firing
// instant is left to the runtime.
func (d Delay) Duration() time.Duration {
	var total time.Duration
	if d.Minutes != nil {
		total += time.Duration(*d.Minutes) * time.Minute
	}
	if d.Hours != nil {
		total += time.Duration(*d.Hours) * time.Hour
	}
	if d.Days != nil {
		total += time.Duration(*d.Days) * 24 * time.Hour
	}
	return total
}

// TimerOption configures a Timer's delay.
type TimerOption func(*Delay)

func WithMinutes(n int) TimerOption {
	return func(d *Delay) { d.Minutes = &n }
}

func WithHours(n int) TimerOption {
	return func(d *Delay) { d.Hours = &n }
}

func WithDays(n int) TimerOption {
	return func(d *Delay) { d.Days = &n }
}

// Timer is an event activated once its delay elapses.
type Timer struct {
	node
	delay Delay
	next  []Node
}

// NewTimer returns a timer configured by opts.
func NewTimer(opts ...TimerOption) *Timer {
	t := &Timer{node: node{kind: KindTimer}}
	for _, opt := range opts {
		opt(&t.delay)
	}
	return t
}

// Delay returns a copy of the configured delay.
func (t *Timer) Delay() Delay {
	d := Delay{}
	if t.delay.Minutes != nil {
		d.Minutes = ptr(*t.delay.Minutes)
	}
	if t.delay.Hours != nil {
		d.Hours = ptr(*t.delay.Hours)
	}
	if t.delay.Days != nil {
		d.Days = ptr(*t.delay.Days)
	}
	return d
}

// Next appends a successor activated when the timer fires.
func (t *Timer) Next(n Node) *Timer {
	t.mutate()
	t.next = append(t.next, mustNode(n, "Timer.Next"))
	return t
}

func (t *Timer) Role(role string) *Timer {
	t.setRole(role)
	return t
}

func (t *Timer) Named(name string) *Timer {
	t.setName(name)
	return t
}

func (t *Timer) Outgoing() iter.Seq[Edge] { return nextEdges(t, &t.next) }

// Mailbox is an event activated by an external message accepted by its
// ReceiveFunc.
type Mailbox struct {
	node
	onReceive ReceiveFunc
	next      []Node
}

// NewMailbox returns a mailbox event. onReceive is stored as-is.
func NewMailbox(onReceive ReceiveFunc) *Mailbox {
	return &Mailbox{node: node{kind: KindMailbox}, onReceive: onReceive}
}

// OnReceive returns the message matcher supplied at construction.
func (m *Mailbox) OnReceive() ReceiveFunc { return m.onReceive }

// Next appends a successor activated when a matching message arrives.
func (m *Mailbox) Next(n Node) *Mailbox {
	m.mutate()
	m.next = append(m.next, mustNode(n, "Mailbox.Next"))
	return m
}

func (m *Mailbox) Role(role string) *Mailbox {
	m.setRole(role)
	return m
}

func (m *Mailbox) Named(name string) *Mailbox {
	m.setName(name)
	return m
}

func (m *Mailbox) Outgoing() iter.Seq[Edge] { return nextEdges(m, &m.next) }

// successors returns a copy of a successor list.
func successors(next []Node) []Node { return slices.Clone(next) }

func ptr[T any](v T) *T { return &v }

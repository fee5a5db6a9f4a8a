package flowgraph

import "github.com/petrijr/flowgraph/pkg/api"

// Re-export key types so users don't need to dig into pkg/api.

type (
	Node       = api.Node
	Edge       = api.Edge
	EdgeClass  = api.EdgeClass
	Kind       = api.Kind
	Category   = api.Category
	Definition = api.Definition
	Snapshot   = api.Snapshot
	NodeRecord = api.NodeRecord
	EdgeRecord = api.EdgeRecord
	Branch     = api.Branch
	Delay      = api.Delay

	Start   = api.Start
	End     = api.End
	Timer   = api.Timer
	Mailbox = api.Mailbox
	View    = api.View
	Job     = api.Job
	If      = api.If
	Switch  = api.Switch
	Join    = api.Join
	Split   = api.Split
	First   = api.First

	ConditionFunc = api.ConditionFunc
	JobFunc       = api.JobFunc
	ReceiveFunc   = api.ReceiveFunc
	TimerOption   = api.TimerOption

	IncompleteBranchError = api.IncompleteBranchError
	MultipleStartError    = api.MultipleStartError
	DuplicateNameError    = api.DuplicateNameError
	UnreachableNodeError  = api.UnreachableNodeError

	Observer             = api.Observer
	NoopObserver         = api.NoopObserver
	LoggingObserver      = api.LoggingObserver
	CompositeObserver    = api.CompositeObserver
	BasicMetrics         = api.BasicMetrics
	BasicMetricsSnapshot = api.BasicMetricsSnapshot
)

// Re-export edge classes for convenience.

const (
	EdgeNext      = api.EdgeNext
	EdgeCondTrue  = api.EdgeCondTrue
	EdgeCondFalse = api.EdgeCondFalse
	EdgeDefault   = api.EdgeDefault

	CategoryEvent = api.CategoryEvent
	CategoryTask  = api.CategoryTask
	CategoryGate  = api.CategoryGate
)

// Re-export publish errors.

var (
	ErrEmptyName        = api.ErrEmptyName
	ErrNilStart         = api.ErrNilStart
	ErrIncompleteBranch = api.ErrIncompleteBranch
	ErrMultipleStart    = api.ErrMultipleStart
	ErrDuplicateName    = api.ErrDuplicateName
	ErrUnreachableNode  = api.ErrUnreachableNode
	ErrNoEnd            = api.ErrNoEnd
	ErrAlreadyPublished = api.ErrAlreadyPublished
)

// Node constructors.

var (
	NewStart   = api.NewStart
	NewEnd     = api.NewEnd
	NewTimer   = api.NewTimer
	NewMailbox = api.NewMailbox
	NewView    = api.NewView
	NewJob     = api.NewJob
	NewIf      = api.NewIf
	NewSwitch  = api.NewSwitch
	NewJoin    = api.NewJoin
	NewSplit   = api.NewSplit
	NewFirst   = api.NewFirst

	WithMinutes = api.WithMinutes
	WithHours   = api.WithHours
	WithDays    = api.WithDays
)

// Re-export common observer helpers.

var (
	NewLoggingObserver   = api.NewLoggingObserver
	NewCompositeObserver = api.NewCompositeObserver
)

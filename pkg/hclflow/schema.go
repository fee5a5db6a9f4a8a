package hclflow

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// fileSchema is the top-level structure of a flow file for decoding.
type fileSchema struct {
	Flows []*flowBlock `hcl:"flow,block"`
}

type flowBlock struct {
	Name    string   `hcl:"name,label"`
	Version *string  `hcl:"version,optional"`
	Body    hcl.Body `hcl:",body"`

	Starts    []*startBlock   `hcl:"start,block"`
	Ends      []*endBlock     `hcl:"end,block"`
	Timers    []*timerBlock   `hcl:"timer,block"`
	Mailboxes []*mailboxBlock `hcl:"mailbox,block"`
	Views     []*viewBlock    `hcl:"view,block"`
	Jobs      []*jobBlock     `hcl:"job,block"`
	Ifs       []*ifBlock      `hcl:"if,block"`
	Switches  []*switchBlock  `hcl:"switch,block"`
	Joins     []*joinBlock    `hcl:"join,block"`
	Splits    []*splitBlock   `hcl:"split,block"`
	Firsts    []*firstBlock   `hcl:"first,block"`
}

type startBlock struct {
	Name     string         `hcl:"name,label"`
	Role     *string        `hcl:"role,optional"`
	Activate hcl.Expression `hcl:"activate,optional"`
	Body     hcl.Body       `hcl:",body"`
}

type endBlock struct {
	Name string   `hcl:"name,label"`
	Role *string  `hcl:"role,optional"`
	Body hcl.Body `hcl:",body"`
}

type timerBlock struct {
	Name    string         `hcl:"name,label"`
	Role    *string        `hcl:"role,optional"`
	Minutes *int           `hcl:"minutes,optional"`
	Hours   *int           `hcl:"hours,optional"`
	Days    *int           `hcl:"days,optional"`
	Next    hcl.Expression `hcl:"next,optional"`
	Body    hcl.Body       `hcl:",body"`
}

type mailboxBlock struct {
	Name      string         `hcl:"name,label"`
	Role      *string        `hcl:"role,optional"`
	OnReceive hcl.Expression `hcl:"on_receive"`
	Next      hcl.Expression `hcl:"next,optional"`
	Body      hcl.Body       `hcl:",body"`
}

type viewBlock struct {
	Name string         `hcl:"name,label"`
	Role *string        `hcl:"role,optional"`
	View hcl.Expression `hcl:"view,optional"`
	Next hcl.Expression `hcl:"next,optional"`
	Body hcl.Body       `hcl:",body"`
}

type jobBlock struct {
	Name string         `hcl:"name,label"`
	Role *string        `hcl:"role,optional"`
	Job  hcl.Expression `hcl:"job"`
	Next hcl.Expression `hcl:"next,optional"`
	Body hcl.Body       `hcl:",body"`
}

type ifBlock struct {
	Name    string         `hcl:"name,label"`
	Role    *string        `hcl:"role,optional"`
	Cond    hcl.Expression `hcl:"cond"`
	OnTrue  hcl.Expression `hcl:"on_true,optional"`
	OnFalse hcl.Expression `hcl:"on_false,optional"`
	Body    hcl.Body       `hcl:",body"`
}

type switchBlock struct {
	Name    string         `hcl:"name,label"`
	Role    *string        `hcl:"role,optional"`
	Cases   []*caseBlock   `hcl:"case,block"`
	Default hcl.Expression `hcl:"default,optional"`
	Body    hcl.Body       `hcl:",body"`
}

type caseBlock struct {
	Node hcl.Expression `hcl:"node"`
	Cond hcl.Expression `hcl:"cond"`
}

type joinBlock struct {
	Name    string         `hcl:"name,label"`
	Role    *string        `hcl:"role,optional"`
	WaitAll *bool          `hcl:"wait_all,optional"`
	Next    hcl.Expression `hcl:"next,optional"`
	Body    hcl.Body       `hcl:",body"`
}

type splitBlock struct {
	Name     string         `hcl:"name,label"`
	Role     *string        `hcl:"role,optional"`
	Branches []*branchBlock `hcl:"branch,block"`
	Body     hcl.Body       `hcl:",body"`
}

type branchBlock struct {
	Node hcl.Expression `hcl:"node"`
	Cond hcl.Expression `hcl:"cond,optional"`
}

type firstBlock struct {
	Name string         `hcl:"name,label"`
	Role *string        `hcl:"role,optional"`
	Of   hcl.Expression `hcl:"of"`
	Body hcl.Body       `hcl:",body"`
}

// bodyRange returns the source range of a block body for diagnostics.
func bodyRange(body hcl.Body) *hcl.Range {
	if sb, ok := body.(*hclsyntax.Body); ok {
		return sb.SrcRange.Ptr()
	}
	return body.MissingItemRange().Ptr()
}

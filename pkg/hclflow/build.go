package hclflow

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/hashicorp/hcl/v2"

	"github.com/petrijr/flowgraph"
	"github.com/petrijr/flowgraph/pkg/api"
)

// flowBuilder turns one decoded flow block into nodes. Nodes are declared
// first and wired second so references may point forward.
type flowBuilder struct {
	flow     *Flow
	ctx      *hcl.EvalContext
	bindings Bindings
	ranges   map[string]*hcl.Range
	diags    hcl.Diagnostics
}

func buildFlow(fb *flowBlock, ctx *hcl.EvalContext, bindings Bindings) (*Flow, hcl.Diagnostics) {
	version := flowgraph.DefaultVersion
	if fb.Version != nil && *fb.Version != "" {
		version = *fb.Version
	}

	b := &flowBuilder{
		flow: &Flow{
			Name:    fb.Name,
			Version: version,
			byName:  make(map[string]api.Node),
		},
		ctx:      ctx,
		bindings: bindings,
		ranges:   make(map[string]*hcl.Range),
	}

	b.declareAll(fb)
	if b.diags.HasErrors() {
		return nil, b.diags
	}
	b.wireAll(fb)
	if b.diags.HasErrors() {
		return nil, b.diags
	}

	// Declaration order within the file.
	slices.SortStableFunc(b.flow.Nodes, func(x, y api.Node) int {
		return cmp.Compare(b.ranges[x.Name()].Start.Byte, b.ranges[y.Name()].Start.Byte)
	})
	return b.flow, b.diags
}

func (b *flowBuilder) declare(name string, n api.Node, body hcl.Body) {
	rng := bodyRange(body)
	if prev, dup := b.ranges[name]; dup {
		b.diags = append(b.diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Duplicate node",
			Detail:   fmt.Sprintf("Flow %q already has a node named %q, declared at %s.", b.flow.Name, name, prev),
			Subject:  rng,
		})
		return
	}
	b.ranges[name] = rng
	b.flow.byName[name] = n
	b.flow.Nodes = append(b.flow.Nodes, n)
}

func (b *flowBuilder) declareAll(fb *flowBlock) {
	switch len(fb.Starts) {
	case 0:
		b.diags = append(b.diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Missing start",
			Detail:   fmt.Sprintf("Flow %q must declare exactly one start block.", fb.Name),
			Subject:  bodyRange(fb.Body),
		})
	case 1:
	default:
		for _, extra := range fb.Starts[1:] {
			b.diags = append(b.diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Multiple start blocks",
				Detail:   fmt.Sprintf("Flow %q must declare exactly one start block; %q is an extra one.", fb.Name, extra.Name),
				Subject:  bodyRange(extra.Body),
			})
		}
	}

	for _, blk := range fb.Starts {
		n := api.NewStart().Named(blk.Name).Role(deref(blk.Role))
		if b.flow.Start == nil {
			b.flow.Start = n
		}
		b.declare(blk.Name, n, blk.Body)
	}
	for _, blk := range fb.Ends {
		b.declare(blk.Name, api.NewEnd().Named(blk.Name).Role(deref(blk.Role)), blk.Body)
	}
	for _, blk := range fb.Timers {
		var opts []api.TimerOption
		if blk.Minutes != nil {
			opts = append(opts, api.WithMinutes(*blk.Minutes))
		}
		if blk.Hours != nil {
			opts = append(opts, api.WithHours(*blk.Hours))
		}
		if blk.Days != nil {
			opts = append(opts, api.WithDays(*blk.Days))
		}
		b.declare(blk.Name, api.NewTimer(opts...).Named(blk.Name).Role(deref(blk.Role)), blk.Body)
	}
	for _, blk := range fb.Mailboxes {
		fn := b.receiver(blk.OnReceive)
		b.declare(blk.Name, api.NewMailbox(fn).Named(blk.Name).Role(deref(blk.Role)), blk.Body)
	}
	for _, blk := range fb.Views {
		var descriptor any
		if r, diags := decodeOptionalName(blk.View, b.ctx); diags.HasErrors() {
			b.diags = append(b.diags, diags...)
		} else if r != nil {
			descriptor = b.bindings.view(r.Name)
		}
		b.declare(blk.Name, api.NewView(descriptor).Named(blk.Name).Role(deref(blk.Role)), blk.Body)
	}
	for _, blk := range fb.Jobs {
		fn := b.job(blk.Job)
		b.declare(blk.Name, api.NewJob(fn).Named(blk.Name).Role(deref(blk.Role)), blk.Body)
	}
	for _, blk := range fb.Ifs {
		fn := b.condition(blk.Cond)
		b.declare(blk.Name, api.NewIf(fn).Named(blk.Name).Role(deref(blk.Role)), blk.Body)
	}
	for _, blk := range fb.Switches {
		b.declare(blk.Name, api.NewSwitch().Named(blk.Name).Role(deref(blk.Role)), blk.Body)
	}
	for _, blk := range fb.Joins {
		// Continues on the first arrival unless told otherwise.
		waitAll := blk.WaitAll != nil && *blk.WaitAll
		b.declare(blk.Name, api.NewJoin(waitAll).Named(blk.Name).Role(deref(blk.Role)), blk.Body)
	}
	for _, blk := range fb.Splits {
		b.declare(blk.Name, api.NewSplit().Named(blk.Name).Role(deref(blk.Role)), blk.Body)
	}
	for _, blk := range fb.Firsts {
		b.declare(blk.Name, api.NewFirst().Named(blk.Name).Role(deref(blk.Role)), blk.Body)
	}
}

func (b *flowBuilder) wireAll(fb *flowBlock) {
	for _, blk := range fb.Starts {
		n := b.flow.byName[blk.Name].(*api.Start)
		for _, dst := range b.targets(blk.Activate) {
			n.Activate(dst)
		}
	}
	for _, blk := range fb.Timers {
		n := b.flow.byName[blk.Name].(*api.Timer)
		for _, dst := range b.targets(blk.Next) {
			n.Next(dst)
		}
	}
	for _, blk := range fb.Mailboxes {
		n := b.flow.byName[blk.Name].(*api.Mailbox)
		for _, dst := range b.targets(blk.Next) {
			n.Next(dst)
		}
	}
	for _, blk := range fb.Views {
		n := b.flow.byName[blk.Name].(*api.View)
		for _, dst := range b.targets(blk.Next) {
			n.Next(dst)
		}
	}
	for _, blk := range fb.Jobs {
		n := b.flow.byName[blk.Name].(*api.Job)
		for _, dst := range b.targets(blk.Next) {
			n.Next(dst)
		}
	}
	for _, blk := range fb.Ifs {
		n := b.flow.byName[blk.Name].(*api.If)
		if dst := b.target(blk.OnTrue); dst != nil {
			n.OnTrue(dst)
		}
		if dst := b.target(blk.OnFalse); dst != nil {
			n.OnFalse(dst)
		}
	}
	for _, blk := range fb.Switches {
		n := b.flow.byName[blk.Name].(*api.Switch)
		// Cases keep their order; defaults follow all cases.
		for _, c := range blk.Cases {
			dst := b.target(c.Node)
			cond := b.condition(c.Cond)
			if dst != nil && cond != nil {
				n.Case(dst, cond)
			}
		}
		for _, dst := range b.targets(blk.Default) {
			n.Default(dst)
		}
	}
	for _, blk := range fb.Joins {
		n := b.flow.byName[blk.Name].(*api.Join)
		for _, dst := range b.targets(blk.Next) {
			n.Next(dst)
		}
	}
	for _, blk := range fb.Splits {
		n := b.flow.byName[blk.Name].(*api.Split)
		for _, br := range blk.Branches {
			dst := b.target(br.Node)
			if dst == nil {
				continue
			}
			if isUnset(br.Cond) {
				n.Always(dst)
				continue
			}
			if cond := b.condition(br.Cond); cond != nil {
				n.Next(dst, cond)
			}
		}
	}
	for _, blk := range fb.Firsts {
		n := b.flow.byName[blk.Name].(*api.First)
		for _, dst := range b.targets(blk.Of) {
			n.Of(dst)
		}
	}
}

// lookup resolves a node reference, reporting unknown names.
func (b *flowBuilder) lookup(r ref) api.Node {
	n, ok := b.flow.byName[r.Name]
	if !ok {
		b.diags = append(b.diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unknown node reference",
			Detail:   fmt.Sprintf("Flow %q has no node named %q.", b.flow.Name, r.Name),
			Subject:  r.Range.Ptr(),
		})
		return nil
	}
	return n
}

func (b *flowBuilder) targets(expr hcl.Expression) []api.Node {
	refs, diags := decodeNames(expr, b.ctx)
	b.diags = append(b.diags, diags...)

	out := make([]api.Node, 0, len(refs))
	for _, r := range refs {
		if n := b.lookup(r); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (b *flowBuilder) target(expr hcl.Expression) api.Node {
	r, diags := decodeOptionalName(expr, b.ctx)
	b.diags = append(b.diags, diags...)
	if r == nil {
		return nil
	}
	return b.lookup(*r)
}

func (b *flowBuilder) condition(expr hcl.Expression) api.ConditionFunc {
	r, ok := b.callback(expr)
	if !ok {
		return nil
	}
	fn, bound := b.bindings.condition(r.Name)
	if !bound {
		b.unbound("condition", r)
	}
	return fn
}

func (b *flowBuilder) job(expr hcl.Expression) api.JobFunc {
	r, ok := b.callback(expr)
	if !ok {
		return nil
	}
	fn, bound := b.bindings.job(r.Name)
	if !bound {
		b.unbound("job", r)
	}
	return fn
}

func (b *flowBuilder) receiver(expr hcl.Expression) api.ReceiveFunc {
	r, ok := b.callback(expr)
	if !ok {
		return nil
	}
	fn, bound := b.bindings.receiver(r.Name)
	if !bound {
		b.unbound("receiver", r)
	}
	return fn
}

func (b *flowBuilder) callback(expr hcl.Expression) (ref, bool) {
	r, diags := decodeName(expr, b.ctx)
	b.diags = append(b.diags, diags...)
	return r, !diags.HasErrors()
}

func (b *flowBuilder) unbound(what string, r ref) {
	b.diags = append(b.diags, &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Unbound " + what,
		Detail:   fmt.Sprintf("No %s named %q is bound.", what, r.Name),
		Subject:  r.Range.Ptr(),
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package npr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrCycle is returned by Run when the graph is not acyclic.
var ErrCycle = errors.New("npr: graph has a cycle")

// NodeID identifies a node of a Graph.
type NodeID int

type link struct {
	from NodeID
	slot int
}

type node struct {
	filter Filter
	source *Buffer
	inputs []*link
}

// Graph chains filters: each input slot of a filter node may be bound to
// an output slot of another node. Source nodes hold fixed buffers.
type Graph struct {
	nodes []*node
	opts  options
}

// NewGraph creates an empty graph. Options apply to Run logging.
func NewGraph(opts ...Option) *Graph {
	return &Graph{opts: buildOptions(opts)}
}

func (g *Graph) logger() *slog.Logger {
	if g.opts.logger != nil {
		return g.opts.logger
	}
	return Logger()
}

// AddSource adds a node that outputs b in slot 0.
func (g *Graph) AddSource(b *Buffer) NodeID {
	g.nodes = append(g.nodes, &node{source: b})
	return NodeID(len(g.nodes) - 1)
}

// AddFilter adds a filter node.
func (g *Graph) AddFilter(f Filter) NodeID {
	g.nodes = append(g.nodes, &node{filter: f, inputs: make([]*link, f.NumInputs())})
	return NodeID(len(g.nodes) - 1)
}

// Filter returns the filter of node id, or nil for sources.
func (g *Graph) Filter(id NodeID) Filter {
	if n := g.node(id); n != nil {
		return n.filter
	}
	return nil
}

func (g *Graph) node(id NodeID) *node {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	return g.nodes[id]
}

// Connect binds output slot outSlot of from to input slot inSlot of to,
// replacing any previous binding.
func (g *Graph) Connect(from NodeID, outSlot int, to NodeID, inSlot int) error {
	src, dst := g.node(from), g.node(to)
	if src == nil || dst == nil {
		return fmt.Errorf("npr: connect %d -> %d: unknown node", from, to)
	}
	if dst.filter == nil {
		return fmt.Errorf("npr: connect %d -> %d: sources have no inputs", from, to)
	}
	outs := 1
	if src.filter != nil {
		outs = src.filter.NumOutputs()
	}
	if outSlot < 0 || outSlot >= outs {
		return fmt.Errorf("npr: node %d has no output slot %d", from, outSlot)
	}
	if inSlot < 0 || inSlot >= len(dst.inputs) {
		return fmt.Errorf("npr: node %d has no input slot %d", to, inSlot)
	}
	dst.inputs[inSlot] = &link{from: from, slot: outSlot}
	return nil
}

// Output returns output slot of node id from the last Run.
func (g *Graph) Output(id NodeID, slot int) *Buffer {
	n := g.node(id)
	switch {
	case n == nil:
		return nil
	case n.source != nil:
		if slot != 0 {
			return nil
		}
		return n.source
	case n.filter != nil:
		return n.filter.Output(slot)
	}
	return nil
}

// order returns the nodes in topological order.
func (g *Graph) order() ([]NodeID, error) {
	indeg := make([]int, len(g.nodes))
	next := make([][]NodeID, len(g.nodes))
	for i, n := range g.nodes {
		for _, l := range n.inputs {
			if l == nil {
				continue
			}
			indeg[i]++
			next[l.from] = append(next[l.from], NodeID(i))
		}
	}
	var queue, out []NodeID
	for i, d := range indeg {
		if d == 0 {
			queue = append(queue, NodeID(i))
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		out = append(out, id)
		for _, m := range next[id] {
			indeg[m]--
			if indeg[m] == 0 {
				queue = append(queue, m)
			}
		}
	}
	if len(out) != len(g.nodes) {
		return nil, ErrCycle
	}
	return out, nil
}

// Run updates every filter node in dependency order. Precondition errors
// are collected and the run continues; nodes whose required inputs are
// missing are skipped and reported the same way. Any other error aborts
// the run and is returned.
func (g *Graph) Run(ctx context.Context) error {
	order, err := g.order()
	if err != nil {
		return err
	}
	log := g.logger()

	var soft []error
	for _, id := range order {
		n := g.nodes[id]
		if n.filter == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		inputs := make([]*Buffer, len(n.inputs))
		missing := false
		for i, l := range n.inputs {
			if l != nil {
				inputs[i] = g.Output(l.from, l.slot)
			}
			if inputs[i] == nil && l != nil {
				missing = true
			}
		}
		if missing || len(inputs) == 0 || inputs[0] == nil {
			log.Warn("npr: graph node skipped, input unavailable",
				slog.Int("node", int(id)),
				slog.String("filter", n.filter.Type().String()))
			soft = append(soft, fmt.Errorf("node %d (%s): %w", id, n.filter.Type(),
				preconditionf("input unavailable")))
			continue
		}

		err := n.filter.Update(ctx, inputs...)
		switch {
		case err == nil:
		case errors.Is(err, ErrPrecondition):
			soft = append(soft, fmt.Errorf("node %d (%s): %w", id, n.filter.Type(), err))
		default:
			return fmt.Errorf("node %d (%s): %w", id, n.filter.Type(), err)
		}
	}
	return errors.Join(soft...)
}

package patch

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrCycle is returned when connections form a feedback loop.
	ErrCycle = errors.New("patch: graph contains cycle")
	// ErrUnknownNode is returned when a connection names a node that does not exist.
	ErrUnknownNode = errors.New("patch: unknown node")
	// ErrUnknownParam is returned when a connection targets a port the unit does not have.
	ErrUnknownParam = errors.New("patch: unknown param")
)

type graphNode struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Out    bool   `json:"out"`
	Params any    `json:"params"`
}

type graphConnection struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Param string `json:"param"`
}

type graphState struct {
	Nodes       []graphNode       `json:"nodes"`
	Connections []graphConnection `json:"connections"`
}

// compiledGraph holds the parsed nodes, the edges feeding each node and a
// topological construction order.
type compiledGraph struct {
	Nodes    map[string]Params
	Incoming map[string][]compiledEdge
	Order    []string
}

type compiledEdge struct {
	From  string
	To    string
	Param string
}

// parseGraph parses a patch document and orders its nodes with Kahn's
// algorithm. Nodes without dependencies keep their declaration order.
// Empty input yields an empty graph.
//
//nolint:funlen,cyclop
func parseGraph(raw []byte) (*compiledGraph, error) {
	if len(raw) == 0 {
		return &compiledGraph{}, nil
	}

	var state graphState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("patch: invalid json: %w", err)
	}

	nodes := make(map[string]Params, len(state.Nodes))
	declared := make([]string, 0, len(state.Nodes))

	for i, n := range state.Nodes {
		if n.ID == "" || n.Type == "" {
			return nil, fmt.Errorf("patch: node %d needs an id and a type", i)
		}
		if _, dup := nodes[n.ID]; dup {
			return nil, fmt.Errorf("patch: duplicate node id %q", n.ID)
		}

		num, str := parseNodeParams(n.Params)
		nodes[n.ID] = Params{ID: n.ID, Type: n.Type, Out: n.Out, Num: num, Str: str}
		declared = append(declared, n.ID)
	}

	incoming := make(map[string][]compiledEdge, len(nodes))
	outgoing := make(map[string][]compiledEdge, len(nodes))
	indegree := make(map[string]int, len(nodes))

	for _, c := range state.Connections {
		if _, ok := nodes[c.From]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownNode, c.From)
		}
		if _, ok := nodes[c.To]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownNode, c.To)
		}
		if c.Param == "" {
			return nil, fmt.Errorf("%w: connection %s -> %s names no param", ErrUnknownParam, c.From, c.To)
		}
		if c.From == c.To {
			return nil, fmt.Errorf("%w: %q feeds itself", ErrCycle, c.From)
		}
		for _, e := range incoming[c.To] {
			if e.Param == c.Param {
				return nil, fmt.Errorf("patch: %s.%s connected twice", c.To, c.Param)
			}
		}

		edge := compiledEdge(c)
		outgoing[c.From] = append(outgoing[c.From], edge)
		incoming[c.To] = append(incoming[c.To], edge)
		indegree[c.To]++
	}

	queue := make([]string, 0, len(nodes))
	for _, id := range declared {
		if indegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]string, 0, len(nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		order = append(order, id)
		for _, edge := range outgoing[id] {
			indegree[edge.To]--
			if indegree[edge.To] == 0 {
				queue = append(queue, edge.To)
			}
		}
	}

	if len(order) != len(nodes) {
		return nil, ErrCycle
	}

	return &compiledGraph{
		Nodes:    nodes,
		Incoming: incoming,
		Order:    order,
	}, nil
}

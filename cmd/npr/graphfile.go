package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/gogpu/npr"
)

// graphFile is the YAML description of a filter graph.
//
//	sources:
//	  photo: photo.png
//	nodes:
//	  - name: blur
//	    type: GAUSSIAN
//	    params: {Kernel_size: 5}
//	    inputs: [photo]
//	  - name: ink
//	    type: HALFTONING_CAH
//	    inputs: [blur:0]
//	outputs:
//	  ink: ink.png
type graphFile struct {
	Sources map[string]string `yaml:"sources"`
	Nodes   []nodeSpec        `yaml:"nodes"`
	Outputs map[string]string `yaml:"outputs"`
}

type nodeSpec struct {
	Name           string            `yaml:"name"`
	Type           string            `yaml:"type"`
	Params         map[string]string `yaml:"params"`
	Inputs         []string          `yaml:"inputs"`
	InputChannels  []int             `yaml:"input_channels"`
	OutputChannels []int             `yaml:"output_channels"`
}

func readGraphFile(path string) (*graphFile, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	return parseGraphFile(data)
}

func parseGraphFile(data []byte) (*graphFile, error) {
	var gf graphFile
	if err := yaml.UnmarshalStrict(data, &gf); err != nil {
		return nil, fmt.Errorf("graph file: %w", err)
	}
	if len(gf.Nodes) == 0 {
		return nil, fmt.Errorf("graph file: no nodes")
	}
	return &gf, nil
}

// builtGraph is a graph plus the node names it was built from.
type builtGraph struct {
	graph *npr.Graph
	ids   map[string]npr.NodeID
	nodes []nodeSpec
}

// build creates sources with load and wires every node. Relative source
// paths resolve against base.
func (gf *graphFile) build(base string, load func(string) (*npr.Buffer, error), opts ...npr.Option) (*builtGraph, error) {
	b := &builtGraph{graph: npr.NewGraph(opts...), ids: map[string]npr.NodeID{}, nodes: gf.Nodes}

	names := make([]string, 0, len(gf.Sources))
	for name := range gf.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		buf, err := load(resolve(base, gf.Sources[name]))
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", name, err)
		}
		b.ids[name] = b.graph.AddSource(buf)
	}

	for _, n := range gf.Nodes {
		if _, dup := b.ids[n.Name]; dup || n.Name == "" {
			return nil, fmt.Errorf("node %q: empty or duplicate name", n.Name)
		}
		f, err := npr.New(npr.Type(n.Type), npr.Params(n.Params), opts...)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", n.Name, err)
		}
		for i, ch := range n.InputChannels {
			if err := f.SetInputChannels(i, ch); err != nil {
				return nil, fmt.Errorf("node %s: %w", n.Name, err)
			}
		}
		for i, ch := range n.OutputChannels {
			if err := f.SetOutputChannels(i, ch); err != nil {
				return nil, fmt.Errorf("node %s: %w", n.Name, err)
			}
		}
		b.ids[n.Name] = b.graph.AddFilter(f)
	}

	for _, n := range gf.Nodes {
		for slot, ref := range n.Inputs {
			if ref == "" {
				continue
			}
			from, out, err := b.ref(ref)
			if err != nil {
				return nil, fmt.Errorf("node %s input %d: %w", n.Name, slot, err)
			}
			if err := b.graph.Connect(from, out, b.ids[n.Name], slot); err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}

// ref parses "name" or "name:slot".
func (b *builtGraph) ref(s string) (npr.NodeID, int, error) {
	name, slot := s, 0
	if i := strings.LastIndexByte(s, ':'); i >= 0 {
		n, err := strconv.Atoi(s[i+1:])
		if err != nil {
			return 0, 0, fmt.Errorf("bad slot in %q", s)
		}
		name, slot = s[:i], n
	}
	id, ok := b.ids[name]
	if !ok {
		return 0, 0, fmt.Errorf("unknown node %q", name)
	}
	return id, slot, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

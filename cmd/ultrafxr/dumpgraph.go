package main

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/depp/ultrafxr/internal/engine"
)

// yamlNode is one node in the structured graph dump: its index, the
// kind name its Node.String() reports, and the indices of its inputs.
type yamlNode struct {
	Index  int    `yaml:"index"`
	Kind   string `yaml:"kind"`
	Inputs []int  `yaml:"inputs,omitempty"`
}

type yamlGraph struct {
	Nodes []yamlNode `yaml:"nodes"`
}

// dumpGraphYAML renders graph as YAML, the structured counterpart to
// Graph.Dump's plain-text listing.
func dumpGraphYAML(graph *engine.Graph) (string, error) {
	g := yamlGraph{Nodes: make([]yamlNode, graph.Len())}
	for i := 0; i < graph.Len(); i++ {
		ref := engine.SignalRef(i)
		n := graph.Node(ref)
		inputs := n.Inputs()
		ids := make([]int, len(inputs))
		for j, in := range inputs {
			ids[j] = int(in)
		}
		g.Nodes[i] = yamlNode{Index: i, Kind: n.String(), Inputs: ids}
	}
	out, err := yaml.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("marshaling graph: %w", err)
	}
	return string(out), nil
}

// Package render defines how a topic tree is laid out on any output
// medium: a depth-first pre-order walk where each node's visual style is a
// pure function of its depth.
package render

import (
	"github.com/dtnitsch/learnmap/models"
)

// Weight is the emphasis a renderer gives a line.
type Weight int

const (
	WeightStrong Weight = iota
	WeightMedium
	WeightLight
)

func (w Weight) String() string {
	switch w {
	case WeightStrong:
		return "strong"
	case WeightMedium:
		return "medium"
	default:
		return "light"
	}
}

// IndentStep is the per-level indent in points.
const IndentStep = 20

// Style is the depth-dependent presentation of one node.
type Style struct {
	Weight   Weight
	Bullet   bool
	Indent   float64
	FontSize float64
}

// StyleFor returns the style for a node at depth.
func StyleFor(depth int) Style {
	switch {
	case depth <= 0:
		return Style{Weight: WeightStrong, Indent: 0, FontSize: 14}
	case depth == 1:
		return Style{Weight: WeightMedium, Bullet: true, Indent: IndentStep*1 + 10, FontSize: 12}
	default:
		return Style{Weight: WeightLight, Bullet: true, Indent: float64(IndentStep*depth + 20), FontSize: 11}
	}
}

// VisitFunc is called once per node. Returning an error stops the walk.
type VisitFunc func(node models.TopicNode, depth int) error

// Walk visits nodes depth-first in pre-order, children in stored order,
// starting at depth 0.
func Walk(nodes []models.TopicNode, visit VisitFunc) error {
	return walk(nodes, 0, visit)
}

func walk(nodes []models.TopicNode, depth int, visit VisitFunc) error {
	for _, node := range nodes {
		if err := visit(node, depth); err != nil {
			return err
		}
		if err := walk(node.Children, depth+1, visit); err != nil {
			return err
		}
	}
	return nil
}

// Line is one flattened, styled row of a rendered tree.
type Line struct {
	Depth int
	Label string
	Style Style
}

// Lines flattens nodes in walk order.
func Lines(nodes []models.TopicNode) []Line {
	var lines []Line
	_ = Walk(nodes, func(node models.TopicNode, depth int) error {
		lines = append(lines, Line{Depth: depth, Label: node.Label, Style: StyleFor(depth)})
		return nil
	})
	return lines
}

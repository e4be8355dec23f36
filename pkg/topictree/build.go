// Package topictree turns a flat topic list into the two-level learning map tree.
package topictree

import (
	"strconv"

	"github.com/dtnitsch/learnmap/models"
)

const (
	RootID    = "1"
	RootLabel = "Learning Topics"
)

// Build returns exactly one root whose children are the topics in order,
// with ids "1-1" through "1-n". Topics are not validated or deduplicated.
func Build(topics []string) []models.TopicNode {
	children := make([]models.TopicNode, 0, len(topics))
	for i, topic := range topics {
		children = append(children, models.TopicNode{
			ID:    RootID + "-" + strconv.Itoa(i+1),
			Label: topic,
		})
	}

	return []models.TopicNode{{
		ID:       RootID,
		Label:    RootLabel,
		Children: children,
	}}
}

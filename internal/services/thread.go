package services

import (
	"sort"

	"inkwell/internal/models"

	"github.com/google/uuid"
)

// ThreadNode is one comment plus its replies.
type ThreadNode struct {
	Comment  *models.Comment `json:"comment"`
	Children []*ThreadNode   `json:"children"`
}

// BuildThread reconstructs the comment forest of a post: comments with
// a nil parent are roots, children are grouped under their parent.
// Siblings are ordered newest first, matching the UI's behavior of
// prepending fresh replies; comment id breaks creation-time ties so
// the order is deterministic. Pure function, no I/O.
func BuildThread(comments []*models.Comment) []*ThreadNode {
	nodes := make(map[uuid.UUID]*ThreadNode, len(comments))
	for _, comment := range comments {
		nodes[comment.ID] = &ThreadNode{Comment: comment}
	}

	var roots []*ThreadNode
	for _, comment := range comments {
		node := nodes[comment.ID]
		if comment.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*comment.ParentID]
		if !ok {
			// Orphaned reply (parent deleted); dropped, matching the
			// renderer's filter.
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	sortSiblings(roots)
	for _, node := range nodes {
		sortSiblings(node.Children)
	}
	return roots
}

func sortSiblings(siblings []*ThreadNode) {
	sort.SliceStable(siblings, func(i, j int) bool {
		a, b := siblings[i].Comment, siblings[j].Comment
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
}

// Package paging implements bidirectional keyset pagination and the connection result shape
package paging

import "dap/internal/core/cursor"

// Node is a row the pager can position a cursor on
type Node = cursor.Node

// Edge pairs a node with its cursor
type Edge[T any] struct {
	Cursor string `json:"cursor"`
	Node   T      `json:"node"`
}

// PageInfo describes the page boundaries
// StartCursor and EndCursor are nil only when there are no edges
type PageInfo struct {
	HasNextPage     bool    `json:"hasNextPage"`
	HasPreviousPage bool    `json:"hasPreviousPage"`
	StartCursor     *string `json:"startCursor"`
	EndCursor       *string `json:"endCursor"`
}

// Connection is one page of results plus the size of the whole collection
type Connection[T any] struct {
	Edges      []Edge[T] `json:"edges"`
	PageInfo   PageInfo  `json:"pageInfo"`
	TotalCount int       `json:"totalCount"`
}

// Nodes returns the nodes in edge order
func (c Connection[T]) Nodes() []T {
	out := make([]T, len(c.Edges))
	for i, e := range c.Edges {
		out[i] = e.Node
	}
	return out
}

// Build shapes items into a Connection
// total must come from a separate count over the base filter, not len(items)
func Build[T Node](items []T, total int, hasNext, hasPrev bool) Connection[T] {
	edges := make([]Edge[T], 0, len(items))
	for _, it := range items {
		edges = append(edges, Edge[T]{Cursor: cursor.EncodeNode(it), Node: it})
	}
	info := PageInfo{HasNextPage: hasNext, HasPreviousPage: hasPrev}
	if n := len(edges); n > 0 {
		start, end := edges[0].Cursor, edges[n-1].Cursor
		info.StartCursor = &start
		info.EndCursor = &end
	}
	return Connection[T]{Edges: edges, PageInfo: info, TotalCount: total}
}

package models

// GraphNode is one account in the follow graph, trimmed for rendering.
type GraphNode struct {
	ID        int64  `json:"id,string"`
	Username  string `json:"username"`
	Name      string `json:"name,omitempty"`
	IsSeed    bool   `json:"is_seed"`
	Followers int    `json:"followers"`
}

// GraphEdge is a directed follow relationship between two graph nodes.
type GraphEdge struct {
	Source int64 `json:"source,string"`
	Target int64 `json:"target,string"`
}

// GraphData is a node-link rendering of the stored follow graph.
type GraphData struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

package api

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Snapshot is the serializable topology of a published definition. It is
// what stores persist and what the HTTP API serves. Callbacks are not part
// of it.
type Snapshot struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Version     string       `json:"version"`
	Fingerprint string       `json:"fingerprint"`
	PublishedAt time.Time    `json:"published_at"`
	Nodes       []NodeRecord `json:"nodes"`
	Edges       []EdgeRecord `json:"edges"`
}

// NodeRecord describes one node of a Snapshot.
type NodeRecord struct {
	ID      string       `json:"id"`
	Kind    Kind         `json:"kind"`
	Name    string       `json:"name,omitempty"`
	Title   string       `json:"title"`
	Role    string       `json:"role,omitempty"`
	WaitAll *bool        `json:"wait_all,omitempty"`
	Delay   *DelayRecord `json:"delay,omitempty"`
}

// DelayRecord mirrors Delay for serialization.
type DelayRecord struct {
	Minutes *int `json:"minutes,omitempty"`
	Hours   *int `json:"hours,omitempty"`
	Days    *int `json:"days,omitempty"`
}

// EdgeRecord describes one edge of a Snapshot by node ids.
type EdgeRecord struct {
	Source string    `json:"source"`
	Target string    `json:"target"`
	Class  EdgeClass `json:"class"`
	Label  string    `json:"label,omitempty"`
}

// ComputeFingerprint hashes a topology. Only structure counts: ids, kinds,
// names, roles, join and timer parameters and edges in order. Definition
// ids, publish times and callback identities do not.
func ComputeFingerprint(nodes []NodeRecord, edges []EdgeRecord) string {
	payload := struct {
		Nodes []NodeRecord `json:"n"`
		Edges []EdgeRecord `json:"e"`
	}{nodes, edges}

	// Marshalling plain structs of strings, bools and ints cannot fail.
	data, _ := json.Marshal(payload)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func nodeRecord(id string, n Node) NodeRecord {
	rec := NodeRecord{
		ID:    id,
		Kind:  n.Kind(),
		Name:  n.Name(),
		Title: n.String(),
		Role:  n.AssignedRole(),
	}
	if n.Name() == "" {
		// The address-based rendering would make fingerprints unstable.
		rec.Title = id
	}
	switch v := n.(type) {
	case *Join:
		rec.WaitAll = ptr(v.WaitAll())
	case *Timer:
		if d := v.Delay(); !d.IsZero() {
			rec.Delay = &DelayRecord{Minutes: d.Minutes, Hours: d.Hours, Days: d.Days}
		}
	}
	return rec
}

// RenderEdges renders every edge the way Edge.String does, using node
// titles.
func (s *Snapshot) RenderEdges() []string {
	titles := make(map[string]string, len(s.Nodes))
	for _, n := range s.Nodes {
		titles[n.ID] = n.Title
	}
	out := make([]string, 0, len(s.Edges))
	for _, e := range s.Edges {
		line := fmt.Sprintf("[%s] %s ---> %s", e.Class, titles[e.Source], titles[e.Target])
		if e.Label != "" {
			line += " (" + e.Label + ")"
		}
		out = append(out, line)
	}
	return out
}

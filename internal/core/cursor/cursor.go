// Package cursor encodes and decodes opaque keyset pagination cursors
package cursor

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// version prefixes every token we emit so the format can evolve
const version = "v1"

// Position is a decoded cursor: the id of a row and its optional ordering value
type Position struct {
	ID       string
	Ordering *time.Time
}

// HasOrdering reports whether the composite ordering value was recovered
func (p Position) HasOrdering() bool { return p.Ordering != nil }

// Node is anything a cursor can be built for
type Node interface {
	CursorID() string
	CursorOrdering() *time.Time
}

var enc = base64.RawURLEncoding

// Encode builds a token for id and an optional ordering value
// identical inputs always produce identical tokens
func Encode(id string, ordering *time.Time) string {
	ts := ""
	if ordering != nil {
		// seconds and nanos separately, UnixNano overflows outside 1678..2262
		ts = fmt.Sprintf("%d.%09d", ordering.Unix(), ordering.Nanosecond())
	}
	// id goes last so it may contain the separator
	return enc.EncodeToString([]byte(version + ":" + ts + ":" + id))
}

// EncodeNode builds a token for n
func EncodeNode(n Node) string { return Encode(n.CursorID(), n.CursorOrdering()) }

// Decode parses a token, returning nil for an empty token
// malformed tokens degrade to a Position carrying the raw token as id
func Decode(token string) *Position {
	if token == "" {
		return nil
	}
	if p, ok := decodeV1(token); ok {
		return p
	}
	if p, ok := decodeLegacy(token); ok {
		return p
	}
	return &Position{ID: token}
}

func decodeV1(token string) (*Position, bool) {
	raw, err := enc.DecodeString(token)
	if err != nil {
		return nil, false
	}
	parts := strings.SplitN(string(raw), ":", 3)
	if len(parts) != 3 || parts[0] != version || parts[2] == "" {
		return nil, false
	}
	p := &Position{ID: parts[2]}
	if parts[1] != "" {
		t, ok := parseStamp(parts[1])
		if !ok {
			return nil, false
		}
		p.Ordering = &t
	}
	return p, true
}

// parseStamp reads <sec>.<nsec>, a bare integer is the older unix nanos form
func parseStamp(s string) (time.Time, bool) {
	sec, frac, dotted := strings.Cut(s, ".")
	if !dotted {
		ns, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, false
		}
		return time.Unix(0, ns).UTC(), true
	}
	secs, err := strconv.ParseInt(sec, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	ns, err := strconv.ParseInt(frac, 10, 64)
	if err != nil || len(frac) != 9 || ns < 0 {
		return time.Time{}, false
	}
	return time.Unix(secs, ns).UTC(), true
}

// legacyToken is the base64(JSON) shape issued by the previous api
type legacyToken struct {
	ID        string `json:"id"`
	CreatedAt string `json:"createdAt,omitempty"`
}

func decodeLegacy(token string) (*Position, bool) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, false
	}
	var lt legacyToken
	if err := json.Unmarshal(raw, &lt); err != nil || lt.ID == "" {
		return nil, false
	}
	p := &Position{ID: lt.ID}
	if lt.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339Nano, lt.CreatedAt); err == nil {
			t = t.UTC()
			p.Ordering = &t
		}
	}
	return p, true
}

package document

import (
	"encoding/json"
	"time"
)

type timestampKind uint8

const (
	tsInvalid timestampKind = iota
	tsClient
	tsServer
)

// Timestamp is a timestamp-like field value: either a client-supplied time
// string or a sentinel telling the storage layer to assign the server time on
// write. Both representations are equivalent wherever a timestamp is accepted.
//
// Decoding never fails on a malformed value; the schema check reports it as a
// field violation instead, so a full diagnostic report can still be produced.
type Timestamp struct {
	kind  timestampKind
	value string
}

// ClientTime returns a timestamp carrying a client-supplied time string.
func ClientTime(s string) Timestamp {
	return Timestamp{kind: tsClient, value: s}
}

// ServerAssigned returns the assign-server-time-on-write sentinel.
func ServerAssigned() Timestamp {
	return Timestamp{kind: tsServer}
}

// Valid reports whether the value decoded as one of the two accepted
// representations.
func (t Timestamp) Valid() bool {
	return t.kind != tsInvalid
}

// IsServerAssigned reports whether the storage layer should stamp this field.
func (t Timestamp) IsServerAssigned() bool {
	return t.kind == tsServer
}

// Value returns the client-supplied time string, if there is one.
func (t Timestamp) Value() (string, bool) {
	if t.kind != tsClient {
		return "", false
	}
	return t.value, true
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	// json.Unmarshal handles null by leaving pointer fields nil, so this
	// only sees concrete values.
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = ClientTime(s)
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err == nil {
		*t = ServerAssigned()
		return nil
	}
	*t = Timestamp{}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.kind == tsClient {
		return json.Marshal(t.value)
	}
	return json.Marshal(map[string]string{".sv": "timestamp"})
}

// ResolveTimestamp replaces the server-assign sentinel with the given time.
// Client-supplied values and unset fields pass through unchanged.
func ResolveTimestamp(t *Timestamp, now time.Time) *Timestamp {
	if t == nil || !t.IsServerAssigned() {
		return t
	}
	resolved := ClientTime(now.UTC().Format(time.RFC3339))
	return &resolved
}

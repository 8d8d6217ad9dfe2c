package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Fields is the payload of a document write or read.
type Fields map[string]any

type serverTimestamp struct{}

func (serverTimestamp) String() string { return "<server timestamp>" }

// ServerTimestamp is a field value replaced by the driver with the write
// time in epoch milliseconds.
var ServerTimestamp any = serverTimestamp{}

// IsServerTimestamp reports whether v is the ServerTimestamp sentinel.
func IsServerTimestamp(v any) bool {
	_, ok := v.(serverTimestamp)
	return ok
}

// SplitTimestamps separates sentinel keys from plain values.
func SplitTimestamps(f Fields) (plain Fields, stamped []string) {
	plain = make(Fields, len(f))
	for k, v := range f {
		if IsServerTimestamp(v) {
			stamped = append(stamped, k)
			continue
		}
		plain[k] = v
	}
	return plain, stamped
}

// ResolveTimestamps returns a copy of f with every sentinel set to nowMillis.
func ResolveTimestamps(f Fields, nowMillis int64) Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		if IsServerTimestamp(v) {
			out[k] = nowMillis
			continue
		}
		out[k] = v
	}
	return out
}

// DocumentRef addresses a single document.
type DocumentRef struct {
	Collection string
	ID         string
}

// Doc parses "a/b/c/id" into a reference.
func Doc(path string) DocumentRef {
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return DocumentRef{ID: path}
	}
	return DocumentRef{Collection: path[:i], ID: path[i+1:]}
}

func (r DocumentRef) Path() string {
	return r.Collection + "/" + r.ID
}

func (r DocumentRef) String() string { return r.Path() }

// Document is a read snapshot of one document.
type Document struct {
	Ref  DocumentRef
	Data Fields
}

// DataTo decodes the document into v through its JSON form.
func (d *Document) DataTo(v any) error {
	b, err := json.Marshal(d.Data)
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.Ref, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", d.Ref, err)
	}
	return nil
}

// DecodeFields parses a JSON object keeping numbers exact.
func DecodeFields(raw []byte) (Fields, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var f Fields
	if err := dec.Decode(&f); err != nil {
		return nil, err
	}
	if f == nil {
		f = Fields{}
	}
	return f, nil
}

// Normalize round-trips fields through JSON so that stored values never
// alias caller memory and have the same shapes every driver returns.
func Normalize(f Fields) (Fields, error) {
	b, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return DecodeFields(b)
}

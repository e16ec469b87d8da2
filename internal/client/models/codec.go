package models

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/fieldsync/internal/common"
)

// EncodePayload splits a payload into its JSON document and its binary
// content (media bytes or note audio). Content is nil for text-only kinds.
func EncodePayload(p Payload) (doc []byte, content []byte, err error) {
	doc, err = json.Marshal(p)
	if err != nil {
		return nil, nil, fmt.Errorf("encode %s payload: %w", p.Kind(), err)
	}
	if m, ok := PayloadAs[Media](p); ok {
		content = m.Data
	} else if n, ok := PayloadAs[Note](p); ok {
		content = n.Audio
	}
	return doc, content, nil
}

// DecodePayload is the inverse of EncodePayload.
func DecodePayload(k Kind, doc []byte, content []byte) (Payload, error) {
	switch k {
	case KindMedia:
		var m Media
		if err := json.Unmarshal(doc, &m); err != nil {
			return nil, fmt.Errorf("decode media payload: %w", err)
		}
		m.Data = content
		return &m, nil
	case KindNote:
		var n Note
		if err := json.Unmarshal(doc, &n); err != nil {
			return nil, fmt.Errorf("decode note payload: %w", err)
		}
		n.Audio = content
		return &n, nil
	case KindTask:
		var t Task
		if err := json.Unmarshal(doc, &t); err != nil {
			return nil, fmt.Errorf("decode task payload: %w", err)
		}
		return &t, nil
	case KindChecklist:
		var c Checklist
		if err := json.Unmarshal(doc, &c); err != nil {
			return nil, fmt.Errorf("decode checklist payload: %w", err)
		}
		return &c, nil
	}
	return nil, fmt.Errorf("%w: %q", common.ErrUnknownKind, k)
}

// PayloadAs returns the payload as *T whether it was stored by value or by
// pointer.
func PayloadAs[T any](p Payload) (*T, bool) {
	switch v := any(p).(type) {
	case *T:
		return v, v != nil
	case T:
		return &v, true
	}
	return nil, false
}

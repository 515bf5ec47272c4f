package document

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"sync"
)

// Members is the set of JSON members an entity carries that the model does
// not know about. They are written back untouched on save.
type Members map[string]json.RawMessage

var knownFieldsCache sync.Map

func knownFields(t reflect.Type) map[string]struct{} {
	if cached, ok := knownFieldsCache.Load(t); ok {
		return cached.(map[string]struct{})
	}
	fields := make(map[string]struct{}, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		if name == "" {
			name = t.Field(i).Name
		}
		fields[name] = struct{}{}
	}
	knownFieldsCache.Store(t, fields)
	return fields
}

// decodeMembers unmarshals data into known (a pointer to a struct without
// custom json methods) and returns the members known has no field for.
func decodeMembers(data []byte, known interface{}) (Members, error) {
	if err := json.Unmarshal(data, known); err != nil {
		return nil, err
	}
	var all Members
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for name := range knownFields(reflect.TypeOf(known).Elem()) {
		delete(all, name)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

// encodeMembers marshals known and merges the preserved members into it.
// Known fields win over preserved members with the same name.
func encodeMembers(known interface{}, extra Members) ([]byte, error) {
	data, err := json.Marshal(known)
	if err != nil {
		return nil, err
	}
	var all Members
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for name, raw := range extra {
		if _, exists := all[name]; !exists {
			all[name] = raw
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(all); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (m Members) clone() Members {
	if m == nil {
		return nil
	}
	out := make(Members, len(m))
	for k, v := range m {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

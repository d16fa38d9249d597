package graphql

import (
	"bytes"
	"encoding/json"
)

// object is a JSON object that keeps its keys in selection order.
type object struct {
	keys   []string
	values map[string]any
}

func newObject(size int) *object {
	return &object{keys: make([]string, 0, size), values: make(map[string]any, size)}
}

func (o *object) set(key string, v any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

func (o *object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// shape trims a decoded JSON tree down to the selected fields. typ is the
// object type of v and answers __typename.
func shape(v any, sel []Field, typ string) any {
	if len(sel) == 0 {
		return v
	}

	switch x := v.(type) {
	case []any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = shape(x[i], sel, typ)
		}
		return out
	case map[string]any:
		obj := newObject(len(sel))
		for _, f := range sel {
			if f.Name == "__typename" {
				obj.set(f.Key(), typ)
				continue
			}
			obj.set(f.Key(), shape(x[f.Name], f.Selections, f.Type))
		}
		return obj
	}
	return v
}

// toTree converts a resolved Go value to its generic JSON form.
func toTree(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}
	return tree, nil
}

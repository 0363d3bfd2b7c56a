package jqdata

import (
	"bytes"
	"encoding/json"
)

// envelope is the flat JSON object posted for every request.
type envelope map[string]json.RawMessage

// newEnvelope flattens fields and sets method. fields must encode to a JSON
// object; nil is treated as an empty one.
func newEnvelope(method string, fields any) (envelope, error) {
	env := envelope{}
	if fields != nil {
		b, err := json.Marshal(fields)
		if err != nil {
			return nil, encodeError("marshal command fields", err)
		}
		if !bytes.Equal(b, []byte("null")) {
			if err := json.Unmarshal(b, &env); err != nil {
				return nil, encodeError("command fields are not a json object", err)
			}
		}
	}
	env.set("method", method)
	return env, nil
}

func (e envelope) set(key, value string) {
	b, _ := json.Marshal(value)
	e[key] = b
}

func (e envelope) withToken(token string) envelope {
	e.set("token", token)
	return e
}

func (e envelope) encode() ([]byte, error) {
	b, err := json.Marshal(map[string]json.RawMessage(e))
	if err != nil {
		return nil, encodeError("marshal envelope", err)
	}
	return b, nil
}

// BuildEnvelope returns the request body for method with token and the
// command fields merged into one object. method and token win over fields
// of the same name.
func BuildEnvelope(method, token string, fields any) ([]byte, error) {
	env, err := newEnvelope(method, fields)
	if err != nil {
		return nil, withMethod(err, method)
	}
	return env.withToken(token).encode()
}

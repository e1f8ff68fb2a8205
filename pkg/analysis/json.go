package analysis

import (
	"bytes"
	"encoding/json"
)

// objectWriter builds a JSON object with keys in insertion order
type objectWriter struct {
	buf bytes.Buffer
	err error
}

func newObjectWriter() *objectWriter {
	w := &objectWriter{}
	w.buf.WriteByte('{')
	return w
}

func (w *objectWriter) field(key string, value any) {
	if w.err != nil {
		return
	}
	if w.buf.Len() > 1 {
		w.buf.WriteByte(',')
	}
	k, _ := json.Marshal(key)
	w.buf.Write(k)
	w.buf.WriteByte(':')
	v, err := json.Marshal(value)
	if err != nil {
		w.err = err
		return
	}
	w.buf.Write(v)
}

func (w *objectWriter) bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	w.buf.WriteByte('}')
	return w.buf.Bytes(), nil
}

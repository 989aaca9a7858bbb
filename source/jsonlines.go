// Package source adapts external data into document streams for the schema
// builder. The core makes no assumption about where documents come from; this
// package covers the common export format, one JSON object per line.
package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
	"github.com/valyala/fastjson"

	"github.com/relatable/relatable/document"
)

const maxLineSize = 16 * 1024 * 1024

// JSONLines reads newline-delimited JSON objects, including Mongo extended
// JSON scalars ($oid, $date, $numberLong and friends). Blank lines are
// skipped; a line that does not parse or is not an object comes back as an
// error wrapping document.ErrMalformed so the builder can reject it and keep
// going.
type JSONLines struct {
	sc   *bufio.Scanner
	p    fastjson.Parser
	line int
}

func NewJSONLines(r io.Reader) *JSONLines {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &JSONLines{sc: sc}
}

func (s *JSONLines) Next() (document.Document, error) {
	for s.sc.Scan() {
		s.line++
		line := bytes.TrimSpace(s.sc.Bytes())
		if len(line) == 0 {
			continue
		}

		v, err := s.p.ParseBytes(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %v", s.line, document.ErrMalformed, err)
		}
		if v.Type() != fastjson.TypeObject {
			return nil, fmt.Errorf("line %d: %w: not an object", s.line, document.ErrMalformed)
		}

		o, err := v.Object()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w: %v", s.line, document.ErrMalformed, err)
		}
		return convertObject(o)
	}
	if err := s.sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func convertObject(o *fastjson.Object) (document.Document, error) {
	doc := make(document.Document, 0, o.Len())

	var visitErr error
	o.Visit(func(key []byte, v *fastjson.Value) {
		if visitErr != nil {
			return
		}
		if v.Type() == fastjson.TypeNull {
			// null carries no type signal, drop the field
			return
		}
		val, err := convertValue(v)
		if err != nil {
			visitErr = err
			return
		}
		doc = append(doc, document.Field{Name: string(key), Value: val})
	})

	if visitErr != nil {
		return nil, visitErr
	}
	return doc, nil
}

func convertValue(v *fastjson.Value) (document.Value, error) {
	switch v.Type() {
	case fastjson.TypeObject:
		o, err := v.Object()
		if err != nil {
			return document.Value{}, err
		}
		if id, ok := extendedScalar(o); ok {
			return id, nil
		}
		doc, err := convertObject(o)
		if err != nil {
			return document.Value{}, err
		}
		return document.Map(doc...), nil

	case fastjson.TypeArray:
		a, err := v.Array()
		if err != nil {
			return document.Value{}, err
		}
		elems := make([]document.Value, 0, len(a))
		for _, e := range a {
			if e.Type() == fastjson.TypeNull {
				continue
			}
			c, err := convertValue(e)
			if err != nil {
				return document.Value{}, err
			}
			elems = append(elems, c)
		}
		return document.List(elems...), nil

	case fastjson.TypeString:
		b, err := v.StringBytes()
		if err != nil {
			return document.Value{}, err
		}
		s := string(b)
		if _, err := uuid.Parse(s); err == nil {
			return document.ID(s), nil
		}
		return document.String(s), nil

	case fastjson.TypeNumber:
		if i, err := v.Int64(); err == nil {
			return document.Int(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return document.Value{}, err
		}
		return document.Float(f), nil

	case fastjson.TypeTrue:
		return document.Bool(true), nil
	case fastjson.TypeFalse:
		return document.Bool(false), nil
	}

	return document.Value{}, fmt.Errorf("%w: unexpected value type %s", document.ErrMalformed, v.Type())
}

// extendedScalar unwraps single-key Mongo extended JSON wrappers into scalars
// so database ids and numbers survive the export format.
func extendedScalar(o *fastjson.Object) (document.Value, bool) {
	if o.Len() != 1 {
		return document.Value{}, false
	}

	var res document.Value
	var ok bool
	o.Visit(func(key []byte, v *fastjson.Value) {
		switch string(key) {
		case "$oid":
			if b, err := v.StringBytes(); err == nil {
				res, ok = document.ID(string(b)), true
			}
		case "$date":
			if b, err := v.StringBytes(); err == nil {
				res, ok = document.String(string(b)), true
			}
		case "$numberLong", "$numberInt":
			if b, err := v.StringBytes(); err == nil {
				if i, err := strconv.ParseInt(string(b), 10, 64); err == nil {
					res, ok = document.Int(i), true
				}
			}
		case "$numberDouble":
			if b, err := v.StringBytes(); err == nil {
				if f, err := strconv.ParseFloat(string(b), 64); err == nil {
					res, ok = document.Float(f), true
				}
			}
		}
	})
	return res, ok
}

package jsondict

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
)

// Encoding is the byte format a document is stored in.
type Encoding int

const (
	JSON Encoding = iota
	MsgPack

	defaultEncoding = JSON
)

func (enc Encoding) String() string {
	switch enc {
	case JSON:
		return "json"
	case MsgPack:
		return "msgpack"
	default:
		return fmt.Sprintf("encoding(%d)", int(enc))
	}
}

func ParseEncoding(s string) (Encoding, error) {
	switch s {
	case "json", "":
		return JSON, nil
	case "msgpack":
		return MsgPack, nil
	default:
		return 0, fmt.Errorf("unknown encoding %q", s)
	}
}

// Encode produces a deterministic encoding: object keys are always written
// in sorted order, so equal trees encode to equal bytes.
func (enc Encoding) Encode(v Value) ([]byte, error) {
	switch enc {
	case JSON:
		return appendJSON(nil, v)
	case MsgPack:
		if err := v.validate(); err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		e := msgpack.GetEncoder()
		e.Reset(&buf)
		e.SetSortMapKeys(true)
		e.UseCompactInts(true)
		err := e.Encode(v.Native())
		msgpack.PutEncoder(e)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %v using MsgPack: %w", v.Kind(), err)
		}
		return buf.Bytes(), nil
	default:
		panic("unsupported encoding")
	}
}

// Decode parses any valid encoding of a Value. Data that does not form
// exactly one supported value yields a *DataError.
func (enc Encoding) Decode(data []byte) (Value, error) {
	if len(data) == 0 {
		return Value{}, dataErrf(data, 0, nil, "failed to decode %v: empty data", enc)
	}
	switch enc {
	case JSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var raw any
		if err := dec.Decode(&raw); err != nil {
			return Value{}, dataErrf(data, int(dec.InputOffset()), err, "failed to decode JSON")
		}
		if _, err := dec.Token(); err != io.EOF {
			return Value{}, dataErrf(data, int(dec.InputOffset()), err, "failed to decode JSON: trailing data")
		}
		v, err := From(raw)
		if err != nil {
			return Value{}, dataErrf(data, 0, err, "failed to decode JSON")
		}
		return v, nil
	case MsgPack:
		r := bytes.NewReader(data)
		dec := msgpack.GetDecoder()
		dec.Reset(r)
		dec.UseLooseInterfaceDecoding(true)
		raw, err := dec.DecodeInterfaceLoose()
		msgpack.PutDecoder(dec)
		off := len(data) - r.Len()
		if err != nil {
			return Value{}, dataErrf(data, off, err, "failed to decode msgpack")
		}
		if r.Len() != 0 {
			return Value{}, dataErrf(data, off, nil, "failed to decode msgpack: trailing data")
		}
		v, err := From(raw)
		if err != nil {
			return Value{}, dataErrf(data, 0, err, "failed to decode msgpack")
		}
		return v, nil
	default:
		panic("unsupported encoding")
	}
}

func appendJSON(buf []byte, v Value) ([]byte, error) {
	switch v.kind {
	case KindNull:
		return append(buf, "null"...), nil
	case KindBool:
		return strconv.AppendBool(buf, v.b), nil
	case KindNumber:
		if v.isInt {
			return strconv.AppendInt(buf, v.i, 10), nil
		}
		if err := v.validate(); err != nil {
			return nil, err
		}
		start := len(buf)
		buf = strconv.AppendFloat(buf, v.f, 'g', -1, 64)
		// keep floats floating across a round trip
		if !isFloatLiteral(string(buf[start:])) {
			buf = append(buf, ".0"...)
		}
		return buf, nil
	case KindString:
		if err := validString(v.s); err != nil {
			return nil, err
		}
		return appendJSONString(buf, v.s), nil
	case KindArray:
		var err error
		buf = append(buf, '[')
		for i, e := range v.arr {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf, err = appendJSON(buf, e)
			if err != nil {
				return nil, err
			}
		}
		return append(buf, ']'), nil
	case KindObject:
		var err error
		buf = append(buf, '{')
		for i, k := range v.Keys() {
			if i > 0 {
				buf = append(buf, ',')
			}
			if err := validKey(k); err != nil {
				return nil, err
			}
			buf = appendJSONString(buf, k)
			buf = append(buf, ':')
			buf, err = appendJSON(buf, v.obj[k])
			if err != nil {
				return nil, err
			}
		}
		return append(buf, '}'), nil
	default:
		return nil, errors.New("invalid value kind")
	}
}

func appendJSONString(buf []byte, s string) []byte {
	// s is valid UTF-8, so nothing gets replaced
	return append(buf, must(json.Marshal(s))...)
}

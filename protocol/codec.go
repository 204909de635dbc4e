package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrEmpty       = errors.New("empty message")
	ErrMalformed   = errors.New("malformed message")
	ErrUnknownType = errors.New("unknown message type")
)

func Encode(msg any) ([]byte, error) {
	if msg == nil {
		return nil, fmt.Errorf("trying to encode nil message")
	}
	return json.Marshal(msg)
}

// DecodeInbound parses one client frame. A missing type means imu; numeric
// fields that are absent or unusable become 0.
func DecodeInbound(b []byte) (Inbound, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, ErrEmpty
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if fields == nil {
		// JSON null
		return nil, fmt.Errorf("%w: not an object", ErrMalformed)
	}

	t := MsgImu
	if raw, ok := fields["type"]; ok {
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return nil, fmt.Errorf("%w: type is null", ErrMalformed)
		}
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, fmt.Errorf("%w: type is not a string", ErrMalformed)
		}
	}

	switch t {
	case MsgImu:
		return Imu{
			Ax: number(fields["ax"]),
			Ay: number(fields["ay"]),
			DT: number(fields["dt"]),
		}, nil
	case MsgReset:
		return Reset{}, nil
	case MsgPing:
		return Ping{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
}

// number coerces a JSON value to a finite float. Numbers, numeric strings and
// booleans are accepted; anything else is 0.
func number(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0
	}
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		f = p
	case bool:
		if x {
			f = 1
		}
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// DecodeOutbound parses a server frame into Status, Point, ResetNotice or Pong.
func DecodeOutbound(b []byte) (any, error) {
	if len(b) == 0 {
		return nil, ErrEmpty
	}
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	switch head.Type {
	case MsgStatus:
		return decodeAs[Status](b)
	case MsgPoint:
		return decodeAs[Point](b)
	case MsgReset:
		return decodeAs[ResetNotice](b)
	case MsgPong:
		return decodeAs[Pong](b)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, head.Type)
}

func decodeAs[T any](b []byte) (T, error) {
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return out, nil
}

package protocol

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInboundVariants(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Inbound
	}{
		{"imu", `{"type":"imu","ax":0.5,"ay":-0.25,"dt":0.02}`, Imu{Ax: 0.5, Ay: -0.25, DT: 0.02}},
		{"imu without type", `{"ax":1,"ay":2}`, Imu{Ax: 1, Ay: 2}},
		{"imu missing fields", `{"type":"imu"}`, Imu{}},
		{"numeric strings", `{"ax":"0.75","ay":" -1 ","dt":"0.01"}`, Imu{Ax: 0.75, Ay: -1, DT: 0.01}},
		{"junk numbers", `{"ax":"abc","ay":null,"dt":[1]}`, Imu{}},
		{"non-finite strings", `{"ax":"NaN","ay":"-Inf","dt":"inf"}`, Imu{}},
		{"bools", `{"ax":true,"ay":false}`, Imu{Ax: 1}},
		{"negative dt kept", `{"ax":0,"ay":0,"dt":-5}`, Imu{DT: -5}},
		{"reset", `{"type":"reset"}`, Reset{}},
		{"ping", `{"type":"ping","extra":true}`, Ping{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := DecodeInbound([]byte(c.in))
			require.NoError(t, err)
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Fatalf("DecodeInbound(%s) mismatch (-want +got):\n%s", c.in, diff)
			}
		})
	}
}

func TestDecodeInboundRejects(t *testing.T) {
	cases := []struct {
		in   string
		want error
	}{
		{``, ErrEmpty},
		{`   `, ErrEmpty},
		{`{not json`, ErrMalformed},
		{`[1,2,3]`, ErrMalformed},
		{`"imu"`, ErrMalformed},
		{`42`, ErrMalformed},
		{`null`, ErrMalformed},
		{`{"type":5}`, ErrMalformed},
		{`{"type":null}`, ErrMalformed},
		{`{"type":"draw"}`, ErrUnknownType},
		{`{"type":"IMU"}`, ErrUnknownType},
	}
	for _, c := range cases {
		_, err := DecodeInbound([]byte(c.in))
		if !errors.Is(err, c.want) {
			t.Fatalf("DecodeInbound(%q) err = %v, want %v", c.in, err, c.want)
		}
	}
}

func TestEncodeOutboundShapes(t *testing.T) {
	b, err := Encode(NewStatus(StatusConnected, 3))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"status","message":"connected","clients":3}`, string(b))

	b, err = Encode(NewPoint(1, 2, 3, 4, 5, 6, 0.016))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"point","x":1,"y":2,"vx":3,"vy":4,"ax":5,"ay":6,"dt":0.016}`, string(b))

	b, err = Encode(NewResetNotice())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"reset"}`, string(b))

	b, err = Encode(NewPong())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"pong"}`, string(b))

	_, err = Encode(nil)
	assert.Error(t, err)
}

func TestDecodeOutbound(t *testing.T) {
	p := NewPoint(0.1, -0.2, 0.3, -0.4, 0.5, -0.6, 0.02)
	b, err := json.Marshal(p)
	require.NoError(t, err)

	got, err := DecodeOutbound(b)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	got, err = DecodeOutbound([]byte(`{"type":"status","message":"connected","clients":2}`))
	require.NoError(t, err)
	assert.Equal(t, NewStatus("connected", 2), got)

	got, err = DecodeOutbound([]byte(`{"type":"reset"}`))
	require.NoError(t, err)
	assert.Equal(t, NewResetNotice(), got)

	_, err = DecodeOutbound([]byte(`{"type":"imu"}`))
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = DecodeOutbound(nil)
	assert.ErrorIs(t, err, ErrEmpty)
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"private_chat/pkg/errors"
)

func TestParseEvent_Register(t *testing.T) {
	req := require.New(t)

	env, payload, err := ParseEvent([]byte(`{"event":"register","data":{"user_id":"alice"}}`))

	req.NoError(err)
	req.Equal(EventRegister, env.Event)
	req.Equal(&RegisterPayload{UserID: "alice"}, payload)
}

func TestParseEvent_Join(t *testing.T) {
	req := require.New(t)

	_, payload, err := ParseEvent([]byte(`{"event":"join","data":{"users":["alice","bob"]}}`))

	req.NoError(err)
	req.Equal(&JoinPayload{Users: []string{"alice", "bob"}}, payload)
}

func TestParseEvent_Message(t *testing.T) {
	req := require.New(t)

	_, payload, err := ParseEvent([]byte(`{"event":"message","data":{"from":"alice","to":"bob","message":"hi"}}`))

	req.NoError(err)
	req.Equal(&SendPayload{From: "alice", To: "bob", Message: "hi"}, payload)
}

func TestParseEvent_Invalid(t *testing.T) {
	req := require.New(t)

	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `garbage`},
		{"unknown tag", `{"event":"shrug","data":{}}`},
		{"register without user", `{"event":"register","data":{}}`},
		{"join with one user", `{"event":"join","data":{"users":["alice"]}}`},
		{"join with three users", `{"event":"join","data":{"users":["a","b","c"]}}`},
		{"join with empty identity", `{"event":"join","data":{"users":["alice",""]}}`},
		{"message without body", `{"event":"message","data":{"from":"alice","to":"bob"}}`},
		{"message without sender", `{"event":"message","data":{"to":"bob","message":"hi"}}`},
		{"missing data", `{"event":"message"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ParseEvent([]byte(tc.raw))
			req.ErrorIs(err, errors.ErrValidation)
		})
	}
}

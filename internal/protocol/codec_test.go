package protocol

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Board/internal/domain"
)

func TestDecodeJoin(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"join","payload":{"name":" alice ","userId":"u-1","roomId":"r1","host":true,"presenter":true}}`))
	require.NoError(t, err)

	join, ok := msg.(Join)
	require.True(t, ok, "expected Join, got %T", msg)
	assert.Equal(t, Join{Name: "alice", UserID: "u-1", RoomID: "r1", Host: true, Presenter: true}, join)
}

func TestDecodeJoinMissingRoom(t *testing.T) {
	_, err := Decode([]byte(`{"type":"join","payload":{"name":"alice"}}`))
	assert.ErrorIs(t, err, ErrBadPayload)
}

func TestDecodeJoinLengthLimits(t *testing.T) {
	join := func(name, room string) []byte {
		return []byte(`{"type":"join","payload":{"name":"` + name + `","roomId":"` + room + `"}}`)
	}
	_, err := Decode(join(strings.Repeat("n", 64), strings.Repeat("r", 128)))
	assert.NoError(t, err)

	_, err = Decode(join(strings.Repeat("n", 65), "r1"))
	assert.ErrorIs(t, err, ErrBadPayload)
	_, err = Decode(join("alice", strings.Repeat("r", 129)))
	assert.ErrorIs(t, err, ErrBadPayload)
}

func TestDecodeJoinWithoutPayload(t *testing.T) {
	_, err := Decode([]byte(`{"type":"join"}`))
	assert.ErrorIs(t, err, ErrBadPayload)
}

func TestDecodeDrawUpdate(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"draw-update","payload":{"imageSnapshot":"data:image/png;base64,AAAA"}}`))
	require.NoError(t, err)
	assert.Equal(t, DrawUpdate{ImageSnapshot: "data:image/png;base64,AAAA"}, msg)
}

func TestDecodeDrawUpdateEmpty(t *testing.T) {
	_, err := Decode([]byte(`{"type":"draw-update","payload":{"imageSnapshot":""}}`))
	assert.ErrorIs(t, err, ErrBadPayload)
}

func TestDecodeChat(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"chat","payload":{"text":"hi there "}}`))
	require.NoError(t, err)
	assert.Equal(t, Chat{Text: "hi there "}, msg)

	msg, err = Decode([]byte(`{"type":"chat","payload":{"text":"\n  line one\nline two\n"}}`))
	require.NoError(t, err)
	assert.Equal(t, Chat{Text: "\n  line one\nline two\n"}, msg)

	_, err = Decode([]byte(`{"type":"chat","payload":{"text":"   "}}`))
	assert.ErrorIs(t, err, ErrBadPayload)
	_, err = Decode([]byte(`{"type":"chat","payload":{"text":" \n\t"}}`))
	assert.ErrorIs(t, err, ErrBadPayload)
}

func TestDecodeControlEvents(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"leave"}`))
	require.NoError(t, err)
	assert.Equal(t, Leave{}, msg)

	msg, err = Decode([]byte(`{"type":"ping","payload":{}}`))
	require.NoError(t, err)
	assert.Equal(t, Ping{}, msg)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]byte(`not json`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Decode([]byte(`{"type":"userJoined","payload":{}}`))
	assert.ErrorIs(t, err, ErrUnknownEvent)

	_, err = Decode([]byte(`{"type":"chat","payload":{"text":42}}`))
	assert.ErrorIs(t, err, ErrBadPayload)
}

func TestEncodeEnvelope(t *testing.T) {
	frame, err := Encode(MemberJoined{Name: "bob"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"member-joined","payload":{"name":"bob"}}`, string(frame))
}

func TestEncodeMembersAsArray(t *testing.T) {
	members := []domain.Participant{
		domain.NewParticipant("alice", "u-1", "r1", true, true),
		domain.NewParticipant("bob", "u-2", "r1", false, false),
	}
	frame, err := Encode(NewMembersUpdated(members))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"members-updated","payload":[
		{"name":"alice","userId":"u-1","roomId":"r1","host":true,"presenter":true},
		{"name":"bob","userId":"u-2","roomId":"r1","host":false,"presenter":false}
	]}`, string(frame))

	frame, err = Encode(NewMembersUpdated(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"members-updated","payload":[]}`, string(frame))
}

func TestEncodeWhiteboardAbsent(t *testing.T) {
	frame, err := Encode(WhiteboardUpdate{})
	require.NoError(t, err)

	var env struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(frame, &env))
	assert.Equal(t, string(EventWhiteboardUpdate), env.Type)
	assert.NotContains(t, env.Payload, "imageSnapshot")
}

func TestEncodeJoinAck(t *testing.T) {
	frame, err := Encode(Rejected("room full"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"join-ack","payload":{"success":false,"members":[],"error":"room full"}}`, string(frame))

	frame, err = Encode(Accepted(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"join-ack","payload":{"success":true,"members":[]}}`, string(frame))
}

package protocol

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/goccy/go-json"

	"github.com/dkeye/Board/internal/core"
)

var (
	ErrMalformed    = errors.New("malformed frame")
	ErrUnknownEvent = errors.New("unknown event")
	ErrBadPayload   = errors.New("bad payload")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

type envelope struct {
	Type    EventName       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type outEnvelope struct {
	Type    EventName `json:"type"`
	Payload Outbound  `json:"payload"`
}

// Decode parses one inbound frame. The returned error wraps ErrMalformed,
// ErrUnknownEvent or ErrBadPayload.
func Decode(data []byte) (Inbound, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch env.Type {
	case EventJoin:
		return decodeAs(env, func(p *Join) {
			p.Name = strings.TrimSpace(p.Name)
			p.RoomID = strings.TrimSpace(p.RoomID)
			p.UserID = strings.TrimSpace(p.UserID)
		})
	case EventDrawUpdate:
		return decodeAs[DrawUpdate](env, nil)
	case EventChat:
		return decodeAs[Chat](env, nil)
	case EventLeave:
		return Leave{}, nil
	case EventPing:
		return Ping{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Type)
	}
}

// decodeAs unmarshals the payload into T, normalizes it and validates the result.
func decodeAs[T Inbound](env envelope, normalize func(*T)) (Inbound, error) {
	var p T
	if len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrBadPayload, env.Type, err)
		}
	}
	if normalize != nil {
		normalize(&p)
	}
	if err := check(env.Type, p); err != nil {
		return nil, err
	}
	return p, nil
}

func check(name EventName, v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBadPayload, name, err)
	}
	return nil
}

// Encode wraps msg into the wire envelope.
func Encode(msg Outbound) (core.Frame, error) {
	b, err := json.Marshal(outEnvelope{Type: msg.Event(), Payload: msg})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", msg.Event(), err)
	}
	return core.Frame(b), nil
}

package protocol_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"whisperhouse.game/internal/protocol"
)

func TestSchemas_ValidateSamples(t *testing.T) {
	compile := func(name string) *jsonschema.Schema {
		t.Helper()
		p := filepath.Join("..", "..", "schemas", name)
		s, err := jsonschema.Compile(p)
		if err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
		return s
	}

	validate := func(s *jsonschema.Schema, v any) {
		t.Helper()
		if err := s.Validate(v); err != nil {
			t.Fatalf("validate: %v", err)
		}
	}

	actSchema := compile("act.schema.json")
	welcomeSchema := compile("welcome.schema.json")
	eventsSchema := compile("events.schema.json")

	var act any
	_ = json.Unmarshal([]byte(`{"type":"move","room":"Hallway"}`), &act)
	validate(actSchema, act)

	_ = json.Unmarshal([]byte(`{"type":"chat","message":"hi","whisper":true,"target":"mara"}`), &act)
	validate(actSchema, act)

	var welcome any
	_ = json.Unmarshal([]byte(`{
	  "type":"welcome",
	  "session_id":"2c1f8d6e-9a44-4f0b-8f6e-2b9c1d3e5a70",
	  "message":"Welcome mara!",
	  "mode":"game",
	  "difficulty":"normal",
	  "player":{
	    "name":"mara",
	    "current_room":"Library",
	    "awareness":5,
	    "focus":"normal",
	    "is_ai":false
	  },
	  "total_players":1,
	  "player_index":1
	}`), &welcome)
	validate(welcomeSchema, welcome)

	var events any
	_ = json.Unmarshal([]byte(`{
	  "type":"events",
	  "events":[
	    {"type":"chat","visibility":"room","room":"Hallway","player":"mara","message":"hi","timestamp":1700000000.5},
	    {"type":"ambient","visibility":"ambient","room":"Basement","message":"Shadows flicker in Basement.","volume":2,"timestamp":1700000001.0}
	  ]
	}`), &events)
	validate(eventsSchema, events)
}

func TestSchemas_RejectUnknownActionType(t *testing.T) {
	p := filepath.Join("..", "..", "schemas", "act.schema.json")
	s, err := jsonschema.Compile(p)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	var act any
	_ = json.Unmarshal([]byte(`{"type":"teleport","room":"Attic"}`), &act)
	if err := s.Validate(act); err == nil {
		t.Fatal("expected unknown action type to fail validation")
	}
}

func TestIsKnownAction(t *testing.T) {
	for _, typ := range []string{protocol.ActMove, protocol.ActChat, protocol.ActAbility} {
		if !protocol.IsKnownAction(typ) {
			t.Fatalf("%s should be known", typ)
		}
	}
	for _, typ := range []string{"", "teleport", "MOVE"} {
		if protocol.IsKnownAction(typ) {
			t.Fatalf("%q should not be known", typ)
		}
	}
}

func TestIsKnownCode(t *testing.T) {
	if !protocol.IsKnownCode(protocol.ErrDuplicateIdentity) {
		t.Fatal("duplicate identity code should be known")
	}
	if protocol.IsKnownCode("E_NOPE") {
		t.Fatal("unknown code accepted")
	}
}

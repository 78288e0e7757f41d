package utils

import (
	"encoding/json"
	"errors"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// ErrUndecodable is returned when a ledger or override payload cannot be read
// as JSON, repaired JSON or Hjson.
var ErrUndecodable = errors.New("payload is not JSON, repairable JSON or Hjson")

// Decoder names the parser that accepted a payload.
type Decoder string

const (
	DecoderJSON     Decoder = "json"
	DecoderRepaired Decoder = "json-repair"
	DecoderHJSON    Decoder = "hjson"
)

// RepairJSON fixes common hand-edit mistakes in a ledger or override file:
// unquoted keys, single quotes, trailing commas, comments and unclosed braces.
func RepairJSON(text string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(text)
	if err != nil {
		return "", fmt.Errorf("repair: %w", err)
	}
	return repaired, nil
}

// ParseHJSON converts an Hjson document (comments, unquoted strings) to JSON.
func ParseHJSON(text string) (string, error) {
	var doc interface{}
	if err := hjson.Unmarshal([]byte(text), &doc); err != nil {
		return "", fmt.Errorf("hjson: %w", err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("hjson re-encode: %w", err)
	}
	return string(out), nil
}

// DecodeLenient decodes text into target with strict JSON first, then the
// repaired text, then Hjson. It reports which decoder succeeded. On failure
// the error wraps ErrUndecodable and carries each decoder's complaint.
func DecodeLenient(text string, target interface{}) (Decoder, error) {
	strictErr := json.Unmarshal([]byte(text), target)
	if strictErr == nil {
		return DecoderJSON, nil
	}

	repairErr := decodeVia(RepairJSON, text, target)
	if repairErr == nil {
		return DecoderRepaired, nil
	}

	hjsonErr := decodeVia(ParseHJSON, text, target)
	if hjsonErr == nil {
		return DecoderHJSON, nil
	}

	return "", fmt.Errorf("%w (json: %v; %v; %v)", ErrUndecodable, strictErr, repairErr, hjsonErr)
}

func decodeVia(convert func(string) (string, error), text string, target interface{}) error {
	converted, err := convert(text)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(converted), target)
}

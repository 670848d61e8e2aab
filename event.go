package abicodec

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// EventParam is one event input. Indexed parameters are carried in topics.
type EventParam struct {
	Name    string
	Type    Type
	Indexed bool
}

// Event describes a Solidity event.
type Event struct {
	Name      string
	Inputs    []EventParam
	Anonymous bool
}

// Signature returns the canonical event signature, e.g. "Upgraded(address)".
func (e *Event) Signature() string {
	types := make([]Type, len(e.Inputs))
	for i, in := range e.Inputs {
		types[i] = in.Type
	}
	return Signature(e.Name, types)
}

// ID returns topic[0] of the event: the Keccak-256 hash of its signature.
func (e *Event) ID() common.Hash {
	return EventSignatureHash(e.Signature())
}

func (e *Event) maxIndexed() int {
	if e.Anonymous {
		return 4
	}
	return 3
}

func (e *Event) split() (indexed, data []EventParam) {
	for _, in := range e.Inputs {
		if in.Indexed {
			indexed = append(indexed, in)
		} else {
			data = append(data, in)
		}
	}
	return indexed, data
}

func paramTypes(params []EventParam) []Type {
	types := make([]Type, len(params))
	for i, p := range params {
		types[i] = p.Type
	}
	return types
}

// EncodeLog builds the topics and data of a log emitting this event.
// values are given in declaration order, indexed and non-indexed interleaved.
func (e *Event) EncodeLog(values ...any) ([]common.Hash, []byte, error) {
	if len(values) != len(e.Inputs) {
		return nil, nil, &EncodeError{
			Type:  e.Signature(),
			Value: values,
			Err:   &TypeError{Type: fmt.Sprintf("%d values", len(e.Inputs)), Got: fmt.Sprintf("%d values", len(values))},
		}
	}
	indexed, _ := e.split()
	if len(indexed) > e.maxIndexed() {
		return nil, nil, &EncodeError{Type: e.Signature(), Err: fmt.Errorf("%w: %d indexed parameters", ErrInvalidType, len(indexed))}
	}

	var topics []common.Hash
	if !e.Anonymous {
		topics = append(topics, e.ID())
	}
	var (
		dataTypes  []Type
		dataValues []any
	)
	for i, in := range e.Inputs {
		if !in.Indexed {
			dataTypes = append(dataTypes, in.Type)
			dataValues = append(dataValues, values[i])
			continue
		}
		topic, err := EncodeTopic(in.Type, values[i])
		if err != nil {
			return nil, nil, err
		}
		topics = append(topics, topic)
	}
	data, err := Encode(dataTypes, dataValues...)
	if err != nil {
		return nil, nil, err
	}
	return topics, data, nil
}

// DecodeLog decodes the topics and data of a log of this event into values
// in declaration order. Indexed value types decode like ordinary words;
// indexed bytes, strings, arrays, and tuples are only available as their
// topic hash and decode to common.Hash.
func (e *Event) DecodeLog(topics []common.Hash, data []byte, opts ...DecodeOption) ([]any, error) {
	indexed, nonIndexed := e.split()
	if !e.Anonymous {
		if len(topics) == 0 || topics[0] != e.ID() {
			return nil, &DecodeError{Type: e.Signature(), Err: fmt.Errorf("%w: topic[0] does not match event id", ErrMalformed)}
		}
		topics = topics[1:]
	}
	if len(topics) != len(indexed) {
		return nil, &DecodeError{
			Type: e.Signature(),
			Err:  fmt.Errorf("%w: %d indexed topics, want %d", ErrMalformed, len(topics), len(indexed)),
		}
	}

	dataValues, err := Decode(paramTypes(nonIndexed), data, opts...)
	if err != nil {
		return nil, err
	}
	cfg := newDecodeConfig(opts)

	out := make([]any, 0, len(e.Inputs))
	var ti, di int
	for _, in := range e.Inputs {
		if !in.Indexed {
			out = append(out, dataValues[di])
			di++
			continue
		}
		topic := topics[ti]
		ti++
		if !in.Type.IsValueType() {
			out = append(out, topic)
			continue
		}
		v, err := decodeWord(in.Type, Word(topic), cfg.lenientBool)
		if err != nil {
			return nil, &DecodeError{Type: in.Type.canonical, Err: fmt.Errorf("%w: topic %d: %w", ErrMalformed, ti, err)}
		}
		out = append(out, v)
	}
	return out, nil
}

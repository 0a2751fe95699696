// Package jsonl parses patient populations from JSON-lines data, one patient
// per line:
//
//	{"id": 12, "events": [
//	  {"code": 32, "age": 10.5},
//	  {"code": 7, "age": 11, "value": 99.2},
//	  {"code": 9, "age": 11, "text": "positive"},
//	  {"code": 9, "age": 11, "text": "pt note", "unique": true}]}
//
// An event with neither "value" nor "text" carries no value; "value" marks a
// numeric event; "text" marks a shared text event, or per-patient-unique free
// text when "unique" is true. The whole population is loaded eagerly, since
// its size must be known before aggregation can begin.
package jsonl

import (
	"bufio"
	"io"

	"github.com/tidwall/gjson"

	"github.com/go-ehr/vocab"
	"github.com/go-ehr/vocab/datasource/memory"
	"github.com/go-ehr/vocab/errors"
)

// ParserConf configures a JSONL patient Parser
type ParserConf struct {
	MaxBufferSize int // Maximum size in bytes of the buffer used to read lines
}

// Parser produces patient populations from JSONL data
type Parser struct {
	conf *ParserConf
}

// CreateParser returns a new JSONL Parser
func CreateParser(conf *ParserConf) *Parser {
	if conf.MaxBufferSize == 0 {
		conf.MaxBufferSize = bufio.MaxScanTokenSize
	}
	return &Parser{conf: conf}
}

// Parse reads JSONL data to produce a PatientSource
func (p *Parser) Parse(r io.Reader) (vocab.PatientSource, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), p.conf.MaxBufferSize)

	var patients []*vocab.Patient
	line := 0
	for scanner.Scan() {
		line++
		data := scanner.Bytes()
		if len(data) == 0 {
			continue
		}
		if !gjson.ValidBytes(data) {
			return nil, errors.MalformedPatientError{Line: line, Reason: "not valid JSON"}
		}
		patient, err := parsePatient(gjson.ParseBytes(data), line)
		if err != nil {
			return nil, err
		}
		patients = append(patients, patient)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return memory.CreateSource(patients), nil
}

func parsePatient(doc gjson.Result, line int) (*vocab.Patient, error) {
	events := doc.Get("events")
	if !events.IsArray() {
		return nil, errors.MalformedPatientError{Line: line, Reason: "missing events array"}
	}
	patient := &vocab.Patient{ID: doc.Get("id").Uint()}
	var parseErr error
	events.ForEach(func(_, event gjson.Result) bool {
		code := event.Get("code")
		if !code.Exists() {
			parseErr = errors.MalformedPatientError{Line: line, Reason: "event missing code"}
			return false
		}
		parsed := vocab.Event{
			Code: uint32(code.Uint()),
			Age:  event.Get("age").Float(),
		}
		if value := event.Get("value"); value.Exists() {
			parsed.Kind = vocab.ValueNumeric
			parsed.NumericValue = value.Float()
		} else if text := event.Get("text"); text.Exists() {
			parsed.Kind = vocab.ValueSharedText
			if event.Get("unique").Bool() {
				parsed.Kind = vocab.ValueUniqueText
			}
			parsed.TextValue = text.String()
		}
		patient.Events = append(patient.Events, parsed)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return patient, nil
}

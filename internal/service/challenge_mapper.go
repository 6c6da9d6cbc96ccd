package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"

	"github.com/mitchellh/mapstructure"

	"github.com/noah-isme/challenge-schedule/internal/models"
	appErrors "github.com/noah-isme/challenge-schedule/pkg/errors"
)

// DecodeChallengeData parses a raw challenge API body and maps it into the typed model.
func DecodeChallengeData(body []byte) (*models.ChallengeData, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, appErrors.WrapAs(appErrors.ErrMalformedPayload, err, "malformed challenge payload: invalid JSON")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, malformed("trailing data after JSON value")
	}
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return nil, malformed("payload must be a JSON object")
	}
	return MapChallengeData(obj)
}

// MapChallengeData converts an untyped challenge object into ChallengeData.
// Scalars are copied from identically named fields without validation; only the
// calendar/actions structure is required. A vendor is mapped only when the
// source value is truthy.
func MapChallengeData(raw map[string]interface{}) (*models.ChallengeData, error) {
	if raw == nil {
		return nil, malformed("payload must be a JSON object")
	}

	data := &models.ChallengeData{}
	if err := decodeRecord(raw, data, "payload"); err != nil {
		return nil, err
	}

	switch customer := raw["customer"].(type) {
	case nil:
	case map[string]interface{}:
		if err := decodeRecord(customer, &data.Customer, "customer"); err != nil {
			return nil, err
		}
	default:
		return nil, malformed("customer must be an object")
	}

	entries, err := objectList(raw, "calendar", "calendar")
	if err != nil {
		return nil, err
	}
	data.Calendar = make([]models.Calendar, 0, len(entries))
	for i, entry := range entries {
		calendar, err := mapCalendar(entry, fmt.Sprintf("calendar[%d]", i))
		if err != nil {
			return nil, err
		}
		data.Calendar = append(data.Calendar, calendar)
	}

	return data, nil
}

func mapCalendar(raw map[string]interface{}, path string) (models.Calendar, error) {
	var calendar models.Calendar
	if err := decodeRecord(raw, &calendar, path); err != nil {
		return calendar, err
	}

	actions, err := objectList(raw, "actions", path+".actions")
	if err != nil {
		return calendar, err
	}
	calendar.Actions = make([]models.Action, 0, len(actions))
	for i, item := range actions {
		action, err := mapAction(item, fmt.Sprintf("%s.actions[%d]", path, i))
		if err != nil {
			return calendar, err
		}
		calendar.Actions = append(calendar.Actions, action)
	}
	return calendar, nil
}

func mapAction(raw map[string]interface{}, path string) (models.Action, error) {
	var action models.Action
	if err := decodeRecord(raw, &action, path); err != nil {
		return action, err
	}

	vendor := raw["vendor"]
	if !truthy(vendor) {
		return action, nil
	}
	fields, ok := vendor.(map[string]interface{})
	if !ok {
		return action, malformed(path + ".vendor must be an object")
	}
	action.Vendor = &models.Vendor{}
	if err := decodeRecord(fields, action.Vendor, path+".vendor"); err != nil {
		return action, err
	}
	return action, nil
}

func decodeRecord(raw map[string]interface{}, out interface{}, path string) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.DecodeHookFuncKind(scalarHook),
		MatchName:  func(mapKey, fieldName string) bool { return mapKey == fieldName },
		Result:     out,
	})
	if err != nil {
		return appErrors.WrapAs(appErrors.ErrInternal, err, "build payload decoder")
	}
	if err := dec.Decode(raw); err != nil {
		return appErrors.WrapAs(appErrors.ErrMalformedPayload, err, "malformed challenge payload: "+path)
	}
	return nil
}

// scalarHook renders numbers and booleans into string fields and lets integer
// fields accept integral JSON numbers only.
func scalarHook(from reflect.Kind, to reflect.Kind, data interface{}) (interface{}, error) {
	switch to {
	case reflect.String:
		switch v := data.(type) {
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		case bool:
			return strconv.FormatBool(v), nil
		case int:
			return strconv.Itoa(v), nil
		case int64:
			return strconv.FormatInt(v, 10), nil
		}
	case reflect.Int, reflect.Int64, reflect.Int32:
		switch v := data.(type) {
		case json.Number:
			if i, err := v.Int64(); err == nil {
				return i, nil
			}
			f, err := v.Float64()
			if err != nil {
				return nil, fmt.Errorf("%q is not an integer", v.String())
			}
			return integral(f)
		case float64:
			return integral(v)
		}
	}
	return data, nil
}

// integral accepts floats like 13.0 and rejects fractions and values outside
// the int64 range.
func integral(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fmt.Errorf("%v is not an integer", f)
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%v is out of range", f)
	}
	return int64(f), nil
}

func objectList(parent map[string]interface{}, key, path string) ([]map[string]interface{}, error) {
	value, ok := parent[key]
	if !ok || value == nil {
		return nil, malformed(path + " is missing")
	}
	items, ok := value.([]interface{})
	if !ok {
		return nil, malformed(path + " must be an array")
	}
	out := make([]map[string]interface{}, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, malformed(fmt.Sprintf("%s[%d] must be an object", path, i))
		}
		out = append(out, obj)
	}
	return out, nil
}

// truthy follows the upstream client's notion of a present value.
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}

func malformed(detail string) error {
	return appErrors.Clone(appErrors.ErrMalformedPayload, "malformed challenge payload: "+detail)
}

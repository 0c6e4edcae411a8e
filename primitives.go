package reform

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

///////////////////////////////////////////////////////////////////////////////
// Leaf implementations
///////////////////////////////////////////////////////////////////////////////

// builtinCodec returns the leaf codec for typ, or nil if typ is not a
// built-in leaf.
//
// Currently supports:
//   - unsigned and signed integers (with overflow checking)
//   - float32 and float64 (with overflow checking)
//   - string and []byte
//   - bool
//   - time.Duration and time.Time
//   - uuid.UUID
//   - TextUnmarshaler support for custom types, matching free text
func builtinCodec(typ reflect.Type) *codec {
	switch typ {
	case UUIDType:
		return leafCodec(typ, PatternUUID, setUUIDValue)
	case TimeType:
		return leafCodec(typ, PatternTime, setTimeValue)
	case DurationType:
		return leafCodec(typ, PatternDuration, setDurationValue)
	case ByteSliceType:
		return leafCodec(typ, PatternText, setBytesValue)
	}

	if reflect.PointerTo(typ).Implements(textUnmarshalerType) {
		return leafCodec(typ, PatternText, setTextValue)
	}

	switch typ.Kind() {
	case reflect.String:
		return leafCodec(typ, PatternText, setStringValue)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return leafCodec(typ, PatternSigned, setIntValue)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return leafCodec(typ, PatternUnsigned, setUintValue)
	case reflect.Float32, reflect.Float64:
		return leafCodec(typ, PatternFloat, setFloatValue)
	case reflect.Bool:
		return leafCodec(typ, PatternBool, setBoolValue)
	default:
		return nil
	}
}

// setTextValue delegates to the TextUnmarshaler of the field
func setTextValue(field reflect.Value, value string) error {
	return field.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(value))
}

// setStringValue sets string field values
func setStringValue(field reflect.Value, value string) error {
	field.SetString(value)
	return nil
}

// setBytesValue copies the matched text into a fresh byte slice
func setBytesValue(field reflect.Value, value string) error {
	field.SetBytes([]byte(value))
	return nil
}

// setIntValue sets integer field values with overflow checking
func setIntValue(field reflect.Value, value string) error {
	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("error converting value to int: %w", err)
	}

	if field.OverflowInt(intValue) {
		return fmt.Errorf("value %d overflows %s", intValue, field.Type().Name())
	}

	field.SetInt(intValue)
	return nil
}

// setUintValue sets unsigned integer field values with overflow checking
func setUintValue(field reflect.Value, value string) error {
	uintValue, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return fmt.Errorf("error converting value to uint: %w", err)
	}

	if field.OverflowUint(uintValue) {
		return fmt.Errorf("value %d overflows %s", uintValue, field.Type().Name())
	}

	field.SetUint(uintValue)
	return nil
}

// setFloatValue sets float field values with overflow checking
func setFloatValue(field reflect.Value, value string) error {
	floatValue, err := strconv.ParseFloat(value, field.Type().Bits())
	if err != nil {
		return fmt.Errorf("error converting value to float: %w", err)
	}

	if field.OverflowFloat(floatValue) {
		return fmt.Errorf("value %f overflows %s", floatValue, field.Type().Name())
	}

	field.SetFloat(floatValue)
	return nil
}

// setBoolValue sets boolean field values.
//
// The words PatternBool accepts are understood in any case:
//   - "true", "1", "yes", "on"
//   - "false", "0", "no", "off"
func setBoolValue(field reflect.Value, value string) error {
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		field.SetBool(true)
		return nil
	case "false", "0", "no", "off":
		field.SetBool(false)
		return nil
	default:
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("error converting value to bool: %w", err)
		}
		field.SetBool(boolValue)
		return nil
	}
}

// setUUIDValue parses any textual form uuid.Parse accepts
func setUUIDValue(field reflect.Value, value string) error {
	uuidValue, err := uuid.Parse(value)
	if err != nil {
		return fmt.Errorf("error converting value to UUID: %w", err)
	}
	field.Set(reflect.ValueOf(uuidValue))
	return nil
}

// setDurationValue parses a Go duration literal
func setDurationValue(field reflect.Value, value string) error {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("error converting value to time.Duration: %w", err)
	}
	field.SetInt(int64(d))
	return nil
}

// timeLayouts are tried in order for time.Time fields
var timeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// setTimeValue sets time.Time field values from the first layout that fits
func setTimeValue(field reflect.Value, value string) error {
	var (
		timeValue time.Time
		err       error
	)
	for _, layout := range timeLayouts {
		if timeValue, err = time.Parse(layout, value); err == nil {
			field.Set(reflect.ValueOf(timeValue))
			return nil
		}
	}
	return fmt.Errorf("error converting value to time.Time: %w", err)
}

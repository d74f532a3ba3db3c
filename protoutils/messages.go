// Package protoutils encodes controller messages into protobuf Struct values so they can ride
// on generic readings and DoCommand style APIs.
package protoutils

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/types/known/structpb"
)

// MessageToStruct converts a wire message (any struct with json tags) into a protobuf Struct.
func MessageToStruct(v interface{}) (*structpb.Struct, error) {
	m, err := InterfaceToMap(v)
	if err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

// StructToMessage decodes a protobuf Struct into out, which must be a pointer to a wire message.
// NaN and infinite numbers survive the round trip.
func StructToMessage(s *structpb.Struct, out interface{}) error {
	if s == nil {
		return errors.New("no struct passed in")
	}
	return errors.Wrapf(decodeMap(s.AsMap(), out), "cannot decode struct into %T", out)
}

// decodeMap decodes the output of structpb's AsMap/AsInterface into out, matching fields by
// their json tags.
func decodeMap(m map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.DecodeHookFuncKind(parseNonFinite),
		TagName:    "json",
		Result:     out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(m)
}

// parseNonFinite turns the "NaN", "Infinity" and "-Infinity" strings that structpb renders
// non-finite numbers as back into floats.
func parseNonFinite(from, to reflect.Kind, data interface{}) (interface{}, error) {
	s, ok := data.(string)
	if from != reflect.String || !ok || (to != reflect.Float64 && to != reflect.Float32) {
		return data, nil
	}
	return strconv.ParseFloat(s, 64)
}

// InterfaceToMap attempts to coerce an interface into a form acceptable by structpb.NewStruct.
// Expects a struct or a map-like object.
func InterfaceToMap(data interface{}) (map[string]interface{}, error) {
	if data == nil {
		return nil, errors.New("no data passed in")
	}
	t := reflect.TypeOf(data)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct:
		return structToMap(data)
	case reflect.Map:
		return marshalMap(data)
	default:
		return nil, errors.Errorf("data of type %T not a struct or a map-like object", data)
	}
}

func toInterface(data interface{}) (interface{}, error) {
	if data == nil {
		return nil, nil
	}
	t := reflect.TypeOf(data)
	if t.Kind() == reflect.Ptr {
		if reflect.ValueOf(data).IsNil() {
			return nil, nil
		}
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct:
		return structToMap(data)
	case reflect.Map:
		return marshalMap(data)
	case reflect.Slice, reflect.Array:
		return marshalSlice(data)
	default:
		return reflect.Indirect(reflect.ValueOf(data)).Interface(), nil
	}
}

// jsonKey returns the key a field is encoded under and whether it is encoded at all.
func jsonKey(field reflect.StructField) (string, bool) {
	if !field.IsExported() {
		return "", false
	}
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		name = field.Name
	}
	return name, true
}

// structToMap attempts to coerce a struct into a form acceptable by grpc.
func structToMap(data interface{}) (map[string]interface{}, error) {
	value := reflect.Indirect(reflect.ValueOf(data))
	t := value.Type()
	if t.Kind() != reflect.Struct {
		return nil, errors.Errorf("data of type %T is not a struct", data)
	}
	res := map[string]interface{}{}
	exported := 0
	for i := 0; i < t.NumField(); i++ {
		key, ok := jsonKey(t.Field(i))
		if !ok {
			continue
		}
		exported++
		v, err := toInterface(value.Field(i).Interface())
		if err != nil {
			return nil, errors.Wrapf(err, "field %s", key)
		}
		res[key] = v
	}
	if exported == 0 && t.NumField() > 0 {
		return nil, errors.Errorf("data of type %T has no exported fields to encode", data)
	}
	return res, nil
}

// marshalMap attempts to coerce maps of string keys into a form acceptable by grpc.
func marshalMap(data interface{}) (map[string]interface{}, error) {
	s := reflect.Indirect(reflect.ValueOf(data))
	if s.Kind() != reflect.Map {
		return nil, errors.Errorf("data of type %T is not a map", data)
	}

	iter := s.MapRange()
	result := map[string]interface{}{}
	for iter.Next() {
		k := iter.Key()
		if k.Kind() != reflect.String {
			return nil, errors.Errorf("map keys of type %v are not strings", k.Kind())
		}
		v, err := toInterface(iter.Value().Interface())
		if err != nil {
			return nil, err
		}
		result[k.String()] = v
	}
	return result, nil
}

// marshalSlice attempts to coerce list data into a form acceptable by grpc.
func marshalSlice(data interface{}) ([]interface{}, error) {
	s := reflect.Indirect(reflect.ValueOf(data))
	if s.Kind() != reflect.Slice && s.Kind() != reflect.Array {
		return nil, errors.Errorf("data of type %T is not a slice", data)
	}

	newList := make([]interface{}, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		v, err := toInterface(s.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		newList = append(newList, v)
	}
	return newList, nil
}

package protoutils

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"google.golang.org/protobuf/types/known/structpb"

	"go.viam.com/lfcmsgs/conversions"
	"go.viam.com/lfcmsgs/msg"
	"go.viam.com/lfcmsgs/numeric"
)

const (
	typeKey     = "_type"
	typeSensor  = "lfc_sensor"
	typeControl = "lfc_control"
	typeVector  = "vector"
	typeMatrix  = "matrix"
)

func goToProto(v interface{}) (*structpb.Value, error) {
	var err error
	switch x := v.(type) {
	case *numeric.Sensor:
		if x != nil {
			v = *x
		}
	case *numeric.Control:
		if x != nil {
			v = *x
		}
	case mat.VecDense:
		v = &x
	case mat.Dense:
		v = &x
	}
	switch x := v.(type) {
	case numeric.Sensor:
		var m msg.Sensor
		if m, err = conversions.SensorToMsg(x); err != nil {
			return nil, err
		}
		v, err = taggedMessage(typeSensor, m)
	case numeric.Control:
		var m msg.Control
		if m, err = conversions.ControlToMsg(x); err != nil {
			return nil, err
		}
		v, err = taggedMessage(typeControl, m)
	case *mat.VecDense:
		v, err = taggedMessage(typeVector, conversions.VectorToMsg(x))
	case *mat.Dense:
		v, err = taggedMessage(typeMatrix, conversions.MatrixToMsg(x))
	default:
		v, err = toInterface(v)
	}
	if err != nil {
		return nil, err
	}
	return structpb.NewValue(v)
}

func taggedMessage(typ string, m interface{}) (map[string]interface{}, error) {
	res, err := InterfaceToMap(m)
	if err != nil {
		return nil, err
	}
	res[typeKey] = typ
	return res, nil
}

// ReadingGoToProto converts readings into protobuf values. Numeric sensors, controls, vectors
// and matrices are converted to their wire form and tagged so ReadingProtoToGo can restore them.
func ReadingGoToProto(readings map[string]interface{}) (map[string]*structpb.Value, error) {
	m := map[string]*structpb.Value{}
	for k, v := range readings {
		vv, err := goToProto(v)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %q", k)
		}
		m[k] = vv
	}
	return m, nil
}

// ReadingProtoToGo is the inverse of ReadingGoToProto.
func ReadingProtoToGo(readings map[string]*structpb.Value) (map[string]interface{}, error) {
	m := map[string]interface{}{}
	for k, v := range readings {
		vv, err := cleanReadingType(v.AsInterface())
		if err != nil {
			return nil, errors.Wrapf(err, "reading %q", k)
		}
		m[k] = vv
	}
	return m, nil
}

func cleanReadingType(v interface{}) (interface{}, error) {
	x, ok := v.(map[string]interface{})
	if !ok {
		return v, nil
	}
	switch x[typeKey] {
	case typeSensor:
		var m msg.Sensor
		if err := mapToMessage(x, &m); err != nil {
			return nil, err
		}
		return conversions.SensorFromMsg(m)
	case typeControl:
		var m msg.Control
		if err := mapToMessage(x, &m); err != nil {
			return nil, err
		}
		return conversions.ControlFromMsg(m)
	case typeVector:
		var m msg.Float64MultiArray
		if err := mapToMessage(x, &m); err != nil {
			return nil, err
		}
		return conversions.VectorFromMsg(m)
	case typeMatrix:
		var m msg.Float64MultiArray
		if err := mapToMessage(x, &m); err != nil {
			return nil, err
		}
		return conversions.MatrixFromMsg(m)
	default:
		return v, nil
	}
}

func mapToMessage(m map[string]interface{}, out interface{}) error {
	return errors.Wrapf(decodeMap(m, out), "cannot decode %v into %T", m[typeKey], out)
}

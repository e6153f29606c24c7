package scale

import (
	"fmt"
	"log"
	"math/big"
	"reflect"
)

// TypeError is the error returned when a Go type cannot be
// represented in the SCALE wire format.
type TypeError struct {
	// Type is the name of the type that caused the error.
	Type string
	// Reason is an explanation of why the type isn't representable.
	Reason error
}

func (e TypeError) Error() string {
	return fmt.Sprintf("scale cannot represent %s: %s", e.Type, e.Reason)
}

func (e TypeError) Unwrap() error {
	return e.Reason
}

func unrepresentable(t reflect.Type, reason string, args ...any) error {
	ts := ""
	if t != nil {
		ts = t.String()
	}
	return TypeError{ts, fmt.Errorf(reason, args...)}
}

const debugCodecs = false

func debugCodec(msg string, args ...any) {
	if !debugCodecs {
		return
	}
	log.Printf(msg, args...)
}

// An EncoderFunc writes a value to the given encoder.
type EncoderFunc func(e *Encoder, v reflect.Value) error

// Marshaler is implemented by types that provide their own SCALE
// encoding, such as generated tagged-union types whose discriminant
// values are not derivable from the Go type alone.
type Marshaler interface {
	MarshalSCALE(e *Encoder) error
}

var (
	marshalerType = reflect.TypeFor[Marshaler]()
	bigIntType    = reflect.TypeFor[*big.Int]()
)

// Marshal returns the SCALE encoding of v.
func Marshal(v any) ([]byte, error) {
	return MarshalAppend(nil, v)
}

// MarshalAppend appends the SCALE encoding of v to bs.
func MarshalAppend(bs []byte, v any) ([]byte, error) {
	val := reflect.ValueOf(v)
	if !val.IsValid() {
		return nil, unrepresentable(nil, "nil interface")
	}
	st := Encoder{Out: bs}
	if err := typeEncoder(val.Type())(&st, val); err != nil {
		return nil, err
	}
	return st.Out, nil
}

func marshalValue(e *Encoder, v any) error {
	val := reflect.ValueOf(v)
	if !val.IsValid() {
		return unrepresentable(nil, "nil interface")
	}
	return typeEncoder(val.Type())(e, val)
}

var encoders codecCache[EncoderFunc]

func init() {
	// An init func to break the initialization cycle between the
	// cache and the recursive calls within deriveTypeEncoder.
	encoders.onPending = func(t reflect.Type) EncoderFunc {
		return func(e *Encoder, v reflect.Value) error {
			enc, ok := encoders.lookup(t)
			if !ok {
				return unrepresentable(t, "codec still deriving")
			}
			return enc(e, v)
		}
	}
}

func typeEncoder(t reflect.Type) EncoderFunc {
	return encoders.Get(t, deriveTypeEncoder)
}

func deriveTypeEncoder(t reflect.Type) EncoderFunc {
	debugCodec("typeEncoder(%s)", t)
	defer debugCodec("end typeEncoder(%s)", t)

	if t == bigIntType {
		return newBigEncoder()
	}
	if t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(marshalerType) {
		return newCondAddrMarshalEncoder(t)
	}
	if t.Implements(marshalerType) {
		return newMarshalEncoder(t)
	}
	switch t.Kind() {
	case reflect.Pointer:
		return newOptionEncoder(t)
	case reflect.Bool:
		return newBoolEncoder()
	case reflect.Int, reflect.Uint:
		return newErrEncoder(unrepresentable(t, "int and uint aren't portable, use fixed width integers"))
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return newIntEncoder(t)
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return newUintEncoder(t)
	case reflect.Float32, reflect.Float64:
		return newErrEncoder(unrepresentable(t, "SCALE has no floating point encoding"))
	case reflect.String:
		return newStringEncoder()
	case reflect.Slice:
		return newSliceEncoder(t)
	case reflect.Array:
		return newArrayEncoder(t)
	case reflect.Struct:
		return newStructEncoder(t)
	case reflect.Map:
		return newErrEncoder(unrepresentable(t, "SCALE containers are ordered, use a slice of pairs"))
	}
	return newErrEncoder(unrepresentable(t, "no known mapping"))
}

func newErrEncoder(err error) EncoderFunc {
	return func(e *Encoder, v reflect.Value) error { return err }
}

func newCondAddrMarshalEncoder(t reflect.Type) EncoderFunc {
	var val EncoderFunc
	if t.Implements(marshalerType) {
		debugCodec("%s{} (external marshaler, w/ addressable optimization)", t)
		val = newMarshalEncoder(t)
	} else {
		debugCodec("%s{} (external marshaler, addressable only)", t)
		val = newErrEncoder(unrepresentable(t, "Marshaler only implemented on pointer receiver, and cannot take address of value"))
	}
	ptr := newMarshalEncoder(reflect.PointerTo(t))

	return func(e *Encoder, v reflect.Value) error {
		if v.CanAddr() {
			return ptr(e, v.Addr())
		}
		return val(e, v)
	}
}

func newMarshalEncoder(t reflect.Type) EncoderFunc {
	debugCodec("%s{} (external Marshaler)", t)
	return func(e *Encoder, v reflect.Value) error {
		return v.Interface().(Marshaler).MarshalSCALE(e)
	}
}

func newBigEncoder() EncoderFunc {
	debugCodec("u128{}")
	return func(e *Encoder, v reflect.Value) error {
		return e.Uint128(v.Interface().(*big.Int))
	}
}

// newOptionEncoder encodes a pointer as a SCALE option: one presence
// byte, then the pointed-to value if present.
func newOptionEncoder(t reflect.Type) EncoderFunc {
	debugCodec("option{%s}", t.Elem())
	elemEnc := typeEncoder(t.Elem())
	return func(e *Encoder, v reflect.Value) error {
		if v.IsNil() {
			e.Uint8(0)
			return nil
		}
		e.Uint8(1)
		return elemEnc(e, v.Elem())
	}
}

func newBoolEncoder() EncoderFunc {
	debugCodec("bool{}")
	return func(e *Encoder, v reflect.Value) error {
		e.Bool(v.Bool())
		return nil
	}
}

func newIntEncoder(t reflect.Type) EncoderFunc {
	switch t.Size() {
	case 1:
		debugCodec("int8{}")
		return func(e *Encoder, v reflect.Value) error {
			e.Uint8(uint8(v.Int()))
			return nil
		}
	case 2:
		debugCodec("int16{}")
		return func(e *Encoder, v reflect.Value) error {
			e.Uint16(uint16(v.Int()))
			return nil
		}
	case 4:
		debugCodec("int32{}")
		return func(e *Encoder, v reflect.Value) error {
			e.Uint32(uint32(v.Int()))
			return nil
		}
	case 8:
		debugCodec("int64{}")
		return func(e *Encoder, v reflect.Value) error {
			e.Uint64(uint64(v.Int()))
			return nil
		}
	default:
		panic("invalid newIntEncoder type")
	}
}

func newUintEncoder(t reflect.Type) EncoderFunc {
	switch t.Size() {
	case 1:
		debugCodec("uint8{}")
		return func(e *Encoder, v reflect.Value) error {
			e.Uint8(uint8(v.Uint()))
			return nil
		}
	case 2:
		debugCodec("uint16{}")
		return func(e *Encoder, v reflect.Value) error {
			e.Uint16(uint16(v.Uint()))
			return nil
		}
	case 4:
		debugCodec("uint32{}")
		return func(e *Encoder, v reflect.Value) error {
			e.Uint32(uint32(v.Uint()))
			return nil
		}
	case 8:
		debugCodec("uint64{}")
		return func(e *Encoder, v reflect.Value) error {
			e.Uint64(v.Uint())
			return nil
		}
	default:
		panic("invalid newUintEncoder type")
	}
}

func newStringEncoder() EncoderFunc {
	debugCodec("string{}")
	return func(e *Encoder, v reflect.Value) error {
		e.String(v.String())
		return nil
	}
}

func newSliceEncoder(t reflect.Type) EncoderFunc {
	if t.Elem().Kind() == reflect.Uint8 {
		debugCodec("[]byte{}")
		return func(e *Encoder, v reflect.Value) error {
			e.Bytes(v.Bytes())
			return nil
		}
	}

	debugCodec("[]%s{}", t.Elem())
	elemEnc := typeEncoder(t.Elem())

	return func(e *Encoder, v reflect.Value) error {
		ln := v.Len()
		e.Compact(uint64(ln))
		for i := 0; i < ln; i++ {
			if err := elemEnc(e, v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	}
}

// newArrayEncoder encodes a fixed array: element encodings in order,
// no length prefix.
func newArrayEncoder(t reflect.Type) EncoderFunc {
	if t.Elem().Kind() == reflect.Uint8 {
		debugCodec("[%d]byte{}", t.Len())
		return func(e *Encoder, v reflect.Value) error {
			for i := 0; i < v.Len(); i++ {
				e.Uint8(uint8(v.Index(i).Uint()))
			}
			return nil
		}
	}

	debugCodec("[%d]%s{}", t.Len(), t.Elem())
	elemEnc := typeEncoder(t.Elem())

	return func(e *Encoder, v reflect.Value) error {
		for i := 0; i < v.Len(); i++ {
			if err := elemEnc(e, v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	}
}

type structFieldEncoder struct {
	idx []int
	enc EncoderFunc
}

type structEncoder []structFieldEncoder

func (fs structEncoder) encode(e *Encoder, v reflect.Value) error {
	for _, f := range fs {
		if err := f.enc(e, v.FieldByIndex(f.idx)); err != nil {
			return err
		}
	}
	return nil
}

func newStructEncoder(t reflect.Type) EncoderFunc {
	debugCodec("%s{}", t)
	ret := structEncoder{}
	for _, f := range reflect.VisibleFields(t) {
		if f.Anonymous || !f.IsExported() {
			continue
		}
		if fieldThroughPointer(t, f.Index) {
			return newErrEncoder(unrepresentable(t, "cannot encode through embedded pointer field %s", f.Name))
		}
		debugCodec("%s.%s{%s}", t, f.Name, f.Type)
		ret = append(ret, structFieldEncoder{f.Index, typeEncoder(f.Type)})
	}
	// An empty struct is the SCALE unit value and encodes to zero
	// bytes.
	return ret.encode
}

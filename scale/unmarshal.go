package scale

import (
	"reflect"
)

// A DecoderFunc reads a value into val.
type DecoderFunc func(d *Decoder, val reflect.Value) error

// Unmarshaler is implemented by types that provide their own SCALE
// decoding. See [Marshaler].
type Unmarshaler interface {
	UnmarshalSCALE(d *Decoder) error
}

var unmarshalerType = reflect.TypeFor[Unmarshaler]()

// Unmarshal decodes the SCALE encoding in bs into v, which must be a
// non-nil pointer. The buffer must be consumed exactly: trailing
// bytes are an error.
func Unmarshal(bs []byte, v any) error {
	d := NewDecoder(bs)
	if err := unmarshalValue(d, v); err != nil {
		return err
	}
	return d.Done()
}

func unmarshalValue(d *Decoder, v any) error {
	if v == nil {
		return unrepresentable(nil, "can't unmarshal into nil interface")
	}
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Pointer {
		return unrepresentable(val.Type(), "can't unmarshal into a non-pointer")
	}
	if val.IsNil() {
		return unrepresentable(val.Type(), "can't unmarshal into nil pointer")
	}
	return typeDecoder(val.Type().Elem())(d, val.Elem())
}

var decoders codecCache[DecoderFunc]

func init() {
	decoders.onPending = func(t reflect.Type) DecoderFunc {
		return func(d *Decoder, v reflect.Value) error {
			dec, ok := decoders.lookup(t)
			if !ok {
				return unrepresentable(t, "codec still deriving")
			}
			return dec(d, v)
		}
	}
}

func typeDecoder(t reflect.Type) DecoderFunc {
	return decoders.Get(t, deriveTypeDecoder)
}

func deriveTypeDecoder(t reflect.Type) DecoderFunc {
	debugCodec("typeDecoder(%s)", t)
	defer debugCodec("end typeDecoder(%s)", t)

	if t == bigIntType {
		return newBigDecoder()
	}
	if pt := reflect.PointerTo(t); pt.Implements(unmarshalerType) {
		return newUnmarshalDecoder(pt)
	}
	switch t.Kind() {
	case reflect.Pointer:
		return newOptionDecoder(t)
	case reflect.Bool:
		return newBoolDecoder()
	case reflect.Int, reflect.Uint:
		return newErrDecoder(unrepresentable(t, "int and uint aren't portable, use fixed width integers"))
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return newIntDecoder(t)
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return newUintDecoder(t)
	case reflect.Float32, reflect.Float64:
		return newErrDecoder(unrepresentable(t, "SCALE has no floating point encoding"))
	case reflect.String:
		return newStringDecoder()
	case reflect.Slice:
		return newSliceDecoder(t)
	case reflect.Array:
		return newArrayDecoder(t)
	case reflect.Struct:
		return newStructDecoder(t)
	case reflect.Map:
		return newErrDecoder(unrepresentable(t, "SCALE containers are ordered, use a slice of pairs"))
	}
	return newErrDecoder(unrepresentable(t, "no known mapping"))
}

func newErrDecoder(err error) DecoderFunc {
	return func(d *Decoder, v reflect.Value) error { return err }
}

func newUnmarshalDecoder(pt reflect.Type) DecoderFunc {
	debugCodec("%s{} (external Unmarshaler)", pt.Elem())
	return func(d *Decoder, v reflect.Value) error {
		return v.Addr().Interface().(Unmarshaler).UnmarshalSCALE(d)
	}
}

func newBigDecoder() DecoderFunc {
	debugCodec("u128{}")
	return func(d *Decoder, v reflect.Value) error {
		u, err := d.Uint128()
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(u))
		return nil
	}
}

// newOptionDecoder decodes a SCALE option into a pointer: absent
// values leave the pointer nil.
func newOptionDecoder(t reflect.Type) DecoderFunc {
	debugCodec("option{%s}", t.Elem())
	elem := t.Elem()
	elemDec := typeDecoder(elem)
	return func(d *Decoder, v reflect.Value) error {
		present, err := d.Bool()
		if err != nil {
			return err
		}
		if !present {
			v.SetZero()
			return nil
		}
		p := reflect.New(elem)
		if err := elemDec(d, p.Elem()); err != nil {
			return err
		}
		v.Set(p)
		return nil
	}
}

func newBoolDecoder() DecoderFunc {
	debugCodec("bool{}")
	return func(d *Decoder, v reflect.Value) error {
		b, err := d.Bool()
		if err != nil {
			return err
		}
		v.SetBool(b)
		return nil
	}
}

func newIntDecoder(t reflect.Type) DecoderFunc {
	switch t.Size() {
	case 1:
		debugCodec("int8{}")
		return func(d *Decoder, v reflect.Value) error {
			u8, err := d.Uint8()
			if err != nil {
				return err
			}
			v.SetInt(int64(int8(u8)))
			return nil
		}
	case 2:
		debugCodec("int16{}")
		return func(d *Decoder, v reflect.Value) error {
			u16, err := d.Uint16()
			if err != nil {
				return err
			}
			v.SetInt(int64(int16(u16)))
			return nil
		}
	case 4:
		debugCodec("int32{}")
		return func(d *Decoder, v reflect.Value) error {
			u32, err := d.Uint32()
			if err != nil {
				return err
			}
			v.SetInt(int64(int32(u32)))
			return nil
		}
	case 8:
		debugCodec("int64{}")
		return func(d *Decoder, v reflect.Value) error {
			u64, err := d.Uint64()
			if err != nil {
				return err
			}
			v.SetInt(int64(u64))
			return nil
		}
	default:
		panic("invalid newIntDecoder type")
	}
}

func newUintDecoder(t reflect.Type) DecoderFunc {
	switch t.Size() {
	case 1:
		debugCodec("uint8{}")
		return func(d *Decoder, v reflect.Value) error {
			u8, err := d.Uint8()
			if err != nil {
				return err
			}
			v.SetUint(uint64(u8))
			return nil
		}
	case 2:
		debugCodec("uint16{}")
		return func(d *Decoder, v reflect.Value) error {
			u16, err := d.Uint16()
			if err != nil {
				return err
			}
			v.SetUint(uint64(u16))
			return nil
		}
	case 4:
		debugCodec("uint32{}")
		return func(d *Decoder, v reflect.Value) error {
			u32, err := d.Uint32()
			if err != nil {
				return err
			}
			v.SetUint(uint64(u32))
			return nil
		}
	case 8:
		debugCodec("uint64{}")
		return func(d *Decoder, v reflect.Value) error {
			u64, err := d.Uint64()
			if err != nil {
				return err
			}
			v.SetUint(u64)
			return nil
		}
	default:
		panic("invalid newUintDecoder type")
	}
}

func newStringDecoder() DecoderFunc {
	debugCodec("string{}")
	return func(d *Decoder, v reflect.Value) error {
		s, err := d.String()
		if err != nil {
			return err
		}
		v.SetString(s)
		return nil
	}
}

func newSliceDecoder(t reflect.Type) DecoderFunc {
	if t.Elem().Kind() == reflect.Uint8 {
		debugCodec("[]byte{}")
		return func(d *Decoder, v reflect.Value) error {
			bs, err := d.Bytes()
			if err != nil {
				return err
			}
			ret := make([]byte, len(bs))
			copy(ret, bs)
			v.SetBytes(ret)
			return nil
		}
	}

	debugCodec("[]%s{}", t.Elem())
	elemDec := typeDecoder(t.Elem())

	return func(d *Decoder, v reflect.Value) error {
		ln, err := d.Compact()
		if err != nil {
			return err
		}
		if ln > uint64(d.Remaining()) {
			return d.Errorf("sequence length %d overruns buffer (%d bytes remaining)", ln, d.Remaining())
		}
		n := int(ln)
		v.Set(reflect.MakeSlice(t, n, n))
		for i := 0; i < n; i++ {
			if err := elemDec(d, v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	}
}

func newArrayDecoder(t reflect.Type) DecoderFunc {
	if t.Elem().Kind() == reflect.Uint8 {
		debugCodec("[%d]byte{}", t.Len())
		n := t.Len()
		return func(d *Decoder, v reflect.Value) error {
			bs, err := d.Read(n)
			if err != nil {
				return err
			}
			reflect.Copy(v, reflect.ValueOf(bs))
			return nil
		}
	}

	debugCodec("[%d]%s{}", t.Len(), t.Elem())
	elemDec := typeDecoder(t.Elem())

	return func(d *Decoder, v reflect.Value) error {
		for i := 0; i < v.Len(); i++ {
			if err := elemDec(d, v.Index(i)); err != nil {
				return err
			}
		}
		return nil
	}
}

type structFieldDecoder struct {
	idx []int
	dec DecoderFunc
}

type structDecoder []structFieldDecoder

func (fs structDecoder) decode(d *Decoder, v reflect.Value) error {
	for _, f := range fs {
		if err := f.dec(d, v.FieldByIndex(f.idx)); err != nil {
			return err
		}
	}
	return nil
}

func newStructDecoder(t reflect.Type) DecoderFunc {
	debugCodec("%s{}", t)
	ret := structDecoder{}
	for _, f := range reflect.VisibleFields(t) {
		if f.Anonymous || !f.IsExported() {
			continue
		}
		if fieldThroughPointer(t, f.Index) {
			return newErrDecoder(unrepresentable(t, "cannot decode through embedded pointer field %s", f.Name))
		}
		debugCodec("%s.%s{%s}", t, f.Name, f.Type)
		ret = append(ret, structFieldDecoder{f.Index, typeDecoder(f.Type)})
	}
	return ret.decode
}

// fieldThroughPointer reports whether reaching idx traverses an
// embedded struct pointer, which FieldByIndex cannot allocate.
func fieldThroughPointer(t reflect.Type, idx []int) bool {
	for i, hop := range idx {
		if i > 0 {
			if t.Kind() == reflect.Pointer {
				return true
			}
		}
		t = t.Field(hop).Type
	}
	return false
}

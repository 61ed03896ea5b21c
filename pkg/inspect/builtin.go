package inspect

import "reflect"

// resolveMethod looks the operation up in the reflect method
// set of the candidate as given. Go's method set rules apply:
// a value of type T exposes only T's value methods, while *T
// exposes both. Only exported methods are visible, so the
// operation name must match the exported name exactly.
func resolveMethod(candidate any, operation string) (Lookup, bool) {
	v := reflect.ValueOf(candidate)
	if !v.IsValid() {
		return Lookup{}, false
	}

	m := v.MethodByName(operation)
	if !m.IsValid() {
		return Lookup{}, false
	}

	return Lookup{
		Found:    true,
		Callable: true,
		Kind:     KindMethod,
		Detail:   m.Type().String(),
	}, true
}

// resolveMapEntry treats string-keyed maps as open member
// sets: the operation is satisfied by a func-valued entry
// under the operation's name. A present entry holding anything
// else is located but not callable.
func resolveMapEntry(candidate any, operation string) (Lookup, bool) {
	v := reflect.ValueOf(candidate)
	if v.Kind() != reflect.Map || v.IsNil() {
		return Lookup{}, false
	}

	keyType := v.Type().Key()
	if keyType.Kind() != reflect.String {
		return Lookup{}, false
	}

	key := reflect.ValueOf(operation)
	if key.Type() != keyType {
		key = key.Convert(keyType)
	}

	entry := v.MapIndex(key)
	if !entry.IsValid() {
		return Lookup{}, false
	}
	return classify(entry, KindMapEntry), true
}

// resolveFuncField looks the operation up among the exported
// fields of a struct (or pointed-to struct), including
// promoted fields. A func-typed field satisfies the operation;
// any other field is located but not callable.
func resolveFuncField(candidate any, operation string) (Lookup, bool) {
	v := reflect.ValueOf(candidate)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return Lookup{}, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return Lookup{}, false
	}

	field, ok := v.Type().FieldByName(operation)
	if !ok || !field.IsExported() {
		return Lookup{}, false
	}
	return classify(v.FieldByName(operation), KindField), true
}

// classify inspects a located member value and decides whether
// it is callable. Interface values are unwrapped first; a nil
// func counts as present but not callable.
func classify(v reflect.Value, kind string) Lookup {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return Lookup{
				Found:  true,
				Kind:   kind,
				Detail: "nil",
			}
		}
		v = v.Elem()
	}

	if v.Kind() == reflect.Func {
		if v.IsNil() {
			return Lookup{
				Found:  true,
				Kind:   kind,
				Detail: "nil func",
			}
		}
		return Lookup{
			Found:    true,
			Callable: true,
			Kind:     kind,
			Detail:   v.Type().String(),
		}
	}

	return Lookup{
		Found:  true,
		Kind:   kind,
		Detail: v.Type().String(),
	}
}

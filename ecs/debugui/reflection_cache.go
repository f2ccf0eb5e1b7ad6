package debugui

import (
	"reflect"
	"sync"
)

// FieldInfo describes one exported field of a component struct. Pointer
// fields are described by their element type.
type FieldInfo struct {
	Name      string
	Type      reflect.Type
	Index     int
	IsPointer bool
}

func (f FieldInfo) Kind() reflect.Kind {
	return f.Type.Kind()
}

// ReflectionCache memoizes the exported fields of struct types, which the
// panels look up every frame.
type ReflectionCache struct {
	fields sync.Map // reflect.Type -> []FieldInfo
}

// Fields returns the exported fields of t, or nil if t is not a struct.
func (rc *ReflectionCache) Fields(t reflect.Type) []FieldInfo {
	if cached, ok := rc.fields.Load(t); ok {
		return cached.([]FieldInfo)
	}
	cached, _ := rc.fields.LoadOrStore(t, exportedFields(t))
	return cached.([]FieldInfo)
}

func exportedFields(t reflect.Type) []FieldInfo {
	if t.Kind() != reflect.Struct {
		return nil
	}
	var fields []FieldInfo
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		info := FieldInfo{Name: sf.Name, Type: sf.Type, Index: i}
		if sf.Type.Kind() == reflect.Ptr {
			info.Type, info.IsPointer = sf.Type.Elem(), true
		}
		fields = append(fields, info)
	}
	return fields
}

var globalReflectionCache = &ReflectionCache{}

package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/walker/ecs"
)

// FieldValue is one leaf field of a component. Nested struct fields are
// flattened with dotted names; Path is the field index chain from the
// component root. Number holds integer and bool fields, which are the
// editable ones.
type FieldValue struct {
	Name     string
	Kind     reflect.Kind
	Text     string
	Number   int64
	Path     []int
	Editable bool
}

type ComponentView struct {
	Type   reflect.Type
	Fields []FieldValue
}

// Inspect lists the components of an entity with their field values, in
// archetype type order. It returns nil for a dead entity.
func Inspect(storage *ecs.Storage, id ecs.EntityId) []ComponentView {
	if !storage.Alive(id) {
		return nil
	}
	var archetype *ecs.Archetype
	for _, a := range storage.Archetypes() {
		if a.ID() == id.ArchetypeId() {
			archetype = a
			break
		}
	}
	if archetype == nil {
		return nil
	}

	views := make([]ComponentView, 0, len(archetype.Types()))
	for _, t := range archetype.Types() {
		component := storage.GetComponent(id, t)
		if component == nil {
			continue
		}
		view := ComponentView{Type: t}
		collectFields(&view.Fields, "", nil, reflect.ValueOf(component).Elem())
		views = append(views, view)
	}
	return views
}

func collectFields(out *[]FieldValue, prefix string, path []int, val reflect.Value) {
	for _, f := range globalReflectionCache.Fields(val.Type()) {
		fv := val.Field(f.Index)
		name := prefix + f.Name
		fieldPath := append(append([]int(nil), path...), f.Index)

		if f.IsPointer {
			if fv.IsNil() {
				*out = append(*out, FieldValue{Name: name, Kind: reflect.Ptr, Text: "nil", Path: fieldPath})
				continue
			}
			*out = append(*out, FieldValue{Name: name, Kind: reflect.Ptr, Text: fmt.Sprintf("%v", fv.Elem().Interface()), Path: fieldPath})
			continue
		}
		if fv.Kind() == reflect.Struct {
			collectFields(out, name+".", fieldPath, fv)
			continue
		}
		n, ok := number(fv)
		*out = append(*out, FieldValue{
			Name:     name,
			Kind:     fv.Kind(),
			Text:     formatValue(fv),
			Number:   n,
			Path:     fieldPath,
			Editable: ok,
		})
	}
}

func formatValue(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return fmt.Sprintf("[%d items]", v.Len())
	case reflect.Map:
		return fmt.Sprintf("map[%d items]", v.Len())
	case reflect.Func:
		if v.IsNil() {
			return "func(nil)"
		}
		return "func"
	}
	return fmt.Sprint(v.Interface())
}

func number(v reflect.Value) (int64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint()), true
	case reflect.Bool:
		if v.Bool() {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// EditValidator is an optional singleton consulted before an inspector edit
// is stored. Validate receives a pointer to the edited copy of the
// component.
type EditValidator struct {
	Validate func(component any) error
}

// validateEdit runs the component's own Validate method, if it has one, and
// then the EditValidator singleton.
func validateEdit(storage *ecs.Storage, component any) error {
	if v, ok := component.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	var ev *EditValidator
	if storage.ReadSingleton(&ev) && ev.Validate != nil {
		return ev.Validate(component)
	}
	return nil
}

// SetField writes value into the component field at path. The write goes to
// a copy first and is kept only if validateEdit accepts it. It reports
// whether the field existed and the value was stored.
func SetField(storage *ecs.Storage, id ecs.EntityId, t reflect.Type, path []int, value int64) bool {
	component := storage.GetComponent(id, t)
	if component == nil || len(path) == 0 {
		return false
	}

	current := reflect.ValueOf(component).Elem()
	trial := reflect.New(current.Type())
	trial.Elem().Set(current)

	field := trial.Elem()
	for _, idx := range path {
		if field.Kind() != reflect.Struct || idx >= field.NumField() {
			return false
		}
		field = field.Field(idx)
	}
	if !field.CanSet() {
		return false
	}

	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.OverflowInt(value) {
			return false
		}
		field.SetInt(value)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if value < 0 || field.OverflowUint(uint64(value)) {
			return false
		}
		field.SetUint(uint64(value))
	case reflect.Bool:
		field.SetBool(value != 0)
	default:
		return false
	}

	if err := validateEdit(storage, trial.Interface()); err != nil {
		return false
	}
	current.Set(trial.Elem())
	return true
}

// ComponentInspector shows and edits the components of the selected entity.
type ComponentInspector struct {
	storage  *ecs.Storage
	rejected string
}

func NewComponentInspector(storage *ecs.Storage) *ComponentInspector {
	return &ComponentInspector{storage: storage}
}

func (ci *ComponentInspector) Render() {
	defer imgui.End()
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		return
	}

	var selection *Selection
	if !ci.storage.ReadSingleton(&selection) || selection.Ref == nil {
		imgui.Text("No entity selected")
		return
	}

	id, ok := selection.Resolve(ci.storage)
	if !ok {
		imgui.Text("Selected entity no longer exists")
		return
	}
	views := Inspect(ci.storage, id)

	imgui.Text(fmt.Sprintf("Entity %s", id))
	imgui.Separator()

	for _, view := range views {
		if !imgui.TreeNodeStr(view.Type.String()) {
			continue
		}
		for _, field := range view.Fields {
			ci.renderField(id, view.Type, field)
		}
		imgui.TreePop()
	}
}

func (ci *ComponentInspector) renderField(id ecs.EntityId, t reflect.Type, field FieldValue) {
	if !field.Editable {
		imgui.Text(fmt.Sprintf("%s: %s", field.Name, field.Text))
		return
	}

	label := fmt.Sprintf("%s##%s.%s", field.Name, t, field.Name)
	if field.Kind == reflect.Bool {
		v := field.Number != 0
		if imgui.Checkbox(label, &v) {
			var n int64
			if v {
				n = 1
			}
			SetField(ci.storage, id, t, field.Path, n)
		}
		return
	}

	v := int32(field.Number)
	imgui.SetNextItemWidth(150)
	key := t.String() + "." + field.Name
	if imgui.InputInt(label, &v) {
		if SetField(ci.storage, id, t, field.Path, int64(v)) {
			ci.rejected = ""
		} else {
			ci.rejected = key
		}
	}
	if ci.rejected == key {
		imgui.SameLine()
		imgui.Text("rejected")
	}
}

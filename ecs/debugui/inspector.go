package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/starship/ecs"
)

// InspectorComponent is a window that shows and edits the components of
// one entity.
type InspectorComponent struct{}

func NewInspectorComponent() *InspectorComponent {
	return &InspectorComponent{}
}

func (ci *InspectorComponent) Render(storage *ecs.Storage, id ecs.EntityId) {
	if !imgui.BeginV("Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if id == 0 {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	archetype := storage.GetArchetypeById(id.ArchetypeId())
	if archetype == nil || !storage.Alive(id) {
		imgui.Text(fmt.Sprintf("Entity %d not found", id))
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity ID: %d", id))
	imgui.Text(fmt.Sprintf("Archetype: 0x%X", id.ArchetypeId()))
	imgui.Separator()

	for _, compType := range archetype.Types() {
		component := storage.GetComponent(id, compType)
		if component == nil {
			continue
		}

		if imgui.TreeNodeStr(compType.String()) {
			ci.renderStruct(reflect.ValueOf(component).Elem(), compType.String())
			imgui.TreePop()
		}
	}

	imgui.End()
}

func (ci *InspectorComponent) renderStruct(val reflect.Value, id string) {
	fields := globalReflectionCache.GetFields(val.Type())
	if len(fields) == 0 {
		imgui.Text(fmt.Sprintf("%v", val.Interface()))
		return
	}

	for _, field := range fields {
		fieldVal := val.Field(field.Index)
		if field.IsPointer {
			if fieldVal.IsNil() {
				imgui.Text(fmt.Sprintf("%s: nil", field.Name))
				continue
			}
			fieldVal = fieldVal.Elem()
		}
		ci.renderField(field.Name, fieldVal, id+"."+field.Name)
	}
}

// renderField draws an editor for val. id keeps widget labels unique.
func (ci *InspectorComponent) renderField(name string, val reflect.Value, id string) {
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if stringer, ok := val.Interface().(fmt.Stringer); ok {
			imgui.Text(fmt.Sprintf("%s: %s", name, stringer))
			return
		}
		v := int32(numericValue(val))
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt("##"+id, &v) && val.CanSet() {
			setNumeric(val, float64(v))
		}

	case reflect.Float32, reflect.Float64:
		v := float32(val.Float())
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputFloat("##"+id, &v) && val.CanSet() {
			setNumeric(val, float64(v))
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name+"##"+id, &v) && val.CanSet() {
			val.SetBool(v)
		}

	case reflect.String:
		v := val.String()
		imgui.Text(fmt.Sprintf("%s:", name))
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint("##"+id, "", &v, imgui.InputTextFlagsNone, nil) && val.CanSet() {
			val.SetString(v)
		}

	case reflect.Array:
		if imgui.TreeNodeStr(fmt.Sprintf("%s %s", name, formatArray(val))) {
			for i := range val.Len() {
				ci.renderField(fmt.Sprintf("[%d]", i), val.Index(i), fmt.Sprintf("%s[%d]", id, i))
			}
			imgui.TreePop()
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			ci.renderStruct(val, id)
			imgui.TreePop()
		}

	case reflect.Slice, reflect.Map:
		imgui.Text(fmt.Sprintf("%s: [%d items]", name, val.Len()))

	default:
		imgui.Text(fmt.Sprintf("%s: %v", name, val.Interface()))
	}
}

func numericValue(val reflect.Value) float64 {
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(val.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(val.Uint())
	case reflect.Float32, reflect.Float64:
		return val.Float()
	}
	return 0
}

// setNumeric stores v into an int, uint or float value. Negative values are
// ignored for unsigned kinds.
func setNumeric(val reflect.Value, v float64) {
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		val.SetInt(int64(v))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if v >= 0 {
			val.SetUint(uint64(v))
		}
	case reflect.Float32, reflect.Float64:
		val.SetFloat(v)
	}
}

func formatArray(val reflect.Value) string {
	if val.Len() == 0 || !numericKind(val.Type().Elem().Kind()) {
		return fmt.Sprintf("[%d]", val.Len())
	}

	s := "("
	for i := range val.Len() {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%.2f", numericValue(val.Index(i)))
	}
	return s + ")"
}

func numericKind(k reflect.Kind) bool {
	return (k >= reflect.Int && k <= reflect.Uint64) || k == reflect.Float32 || k == reflect.Float64
}

package debugui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/starship/ecs"
)

type EntityInfo struct {
	ID             ecs.EntityId
	ArchetypeID    uint32
	ComponentTypes []string
}

// collectEntities lists every live entity, ordered by id.
func collectEntities(storage *ecs.Storage) []EntityInfo {
	var entities []EntityInfo
	for _, archetype := range storage.Archetypes() {
		types := make([]string, len(archetype.Types()))
		for i, t := range archetype.Types() {
			types[i] = t.String()
		}

		for id := range archetype.Iter() {
			entities = append(entities, EntityInfo{
				ID:             id,
				ArchetypeID:    archetype.ID(),
				ComponentTypes: types,
			})
		}
	}

	slices.SortFunc(entities, func(a, b EntityInfo) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return entities
}

// filterEntities keeps entities whose id or component names contain text,
// ignoring case.
func filterEntities(entities []EntityInfo, text string) []EntityInfo {
	if text == "" {
		return entities
	}

	text = strings.ToLower(text)
	var filtered []EntityInfo
	for _, e := range entities {
		components := strings.ToLower(strings.Join(e.ComponentTypes, " "))
		if strings.Contains(fmt.Sprintf("%d", e.ID), text) || strings.Contains(components, text) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// EntityListComponent is a window listing entities; clicking a row selects
// it for the inspector.
type EntityListComponent struct {
	selected   ecs.EntityId
	filterText string
	maxRows    int
}

func NewEntityListComponent(maxRows int) *EntityListComponent {
	return &EntityListComponent{maxRows: maxRows}
}

// Selected returns the picked entity, 0 when none is.
func (el *EntityListComponent) Selected() ecs.EntityId {
	return el.selected
}

func (el *EntityListComponent) Render(storage *ecs.Storage) {
	if !imgui.BeginV("Entities", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if el.selected != 0 && !storage.Alive(el.selected) {
		el.selected = 0
	}

	imgui.InputTextWithHint("##search", "Search...", &el.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear") {
		el.filterText = ""
		el.selected = 0
	}

	entities := filterEntities(collectEntities(storage), el.filterText)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Archetype ID")
		imgui.TableSetupColumn("Components")
		imgui.TableHeadersRow()

		for _, entity := range entities[:min(len(entities), el.maxRows)] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := el.selected == entity.ID
			if imgui.SelectableBoolV(fmt.Sprintf("%d", entity.ID), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				el.selected = entity.ID
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("0x%X", entity.ArchetypeID))

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))
		}

		imgui.EndTable()
	}

	imgui.Text(fmt.Sprintf("Total: %d entities", len(entities)))
	imgui.End()
}

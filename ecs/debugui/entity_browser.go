package debugui

import (
	"fmt"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/walker/ecs"
)

// Selection is a singleton naming the entity the inspector shows. It holds
// a reference so the selection follows the entity through archetype moves
// and compaction.
type Selection struct {
	Ref *ecs.EntityRef
}

// Select points the selection at id.
func (s *Selection) Select(storage *ecs.Storage, id ecs.EntityId) {
	s.Ref = storage.CreateEntityRef(id)
}

// Resolve returns the current id of the selected entity, or false when
// nothing is selected or the entity was deleted.
func (s *Selection) Resolve(storage *ecs.Storage) (ecs.EntityId, bool) {
	if s.Ref == nil {
		return 0, false
	}
	return storage.ResolveEntityRef(s.Ref)
}

type EntityRow struct {
	ID         ecs.EntityId
	Archetype  uint32
	Components []string
}

// CollectEntityRows lists every live entity in storage iteration order.
func CollectEntityRows(storage *ecs.Storage) []EntityRow {
	var rows []EntityRow
	for _, archetype := range storage.Archetypes() {
		names := make([]string, len(archetype.Types()))
		for i, t := range archetype.Types() {
			names[i] = t.String()
		}
		for id := range archetype.Iter() {
			rows = append(rows, EntityRow{ID: id, Archetype: archetype.ID(), Components: names})
		}
	}
	return rows
}

// FilterRows keeps the rows whose id or component names contain filter,
// ignoring case.
func FilterRows(rows []EntityRow, filter string) []EntityRow {
	if filter == "" {
		return rows
	}
	filter = strings.ToLower(filter)

	var out []EntityRow
	for _, row := range rows {
		if strings.Contains(row.ID.String(), filter) ||
			strings.Contains(strings.ToLower(strings.Join(row.Components, " ")), filter) {
			out = append(out, row)
		}
	}
	return out
}

// EntityBrowser lists entities page by page and updates the Selection
// singleton when one is clicked.
type EntityBrowser struct {
	storage  *ecs.Storage
	perPage  int
	page     int
	filter   string
	rows     []EntityRow
	rowsTick int
}

func NewEntityBrowser(storage *ecs.Storage, perPage int) *EntityBrowser {
	ecs.NewSingleton[Selection](storage)
	return &EntityBrowser{storage: storage, perPage: perPage}
}

func (eb *EntityBrowser) Render() {
	defer imgui.End()
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		return
	}

	// ids change when entities move between archetypes; rebuild every 10 frames
	if eb.rowsTick == 0 || eb.rows == nil {
		eb.rows = CollectEntityRows(eb.storage)
	}
	eb.rowsTick = (eb.rowsTick + 1) % 10

	imgui.InputTextWithHint("##filter", "Filter...", &eb.filter, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear") {
		eb.filter = ""
	}

	rows := FilterRows(eb.rows, eb.filter)
	pages := max(1, (len(rows)+eb.perPage-1)/eb.perPage)
	eb.page = min(eb.page, pages-1)

	var selection *Selection
	var selected ecs.EntityId
	if eb.storage.ReadSingleton(&selection) {
		selected, _ = selection.Resolve(eb.storage)
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 2, tableFlags, imgui.NewVec2(0, 240), 0) {
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Components")
		imgui.TableHeadersRow()

		start := eb.page * eb.perPage
		end := min(start+eb.perPage, len(rows))
		for _, row := range rows[start:end] {
			imgui.TableNextRow()
			imgui.TableNextColumn()
			if imgui.SelectableBoolV(row.ID.String(), selected == row.ID, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) && selection != nil {
				selection.Select(eb.storage, row.ID)
			}
			imgui.TableNextColumn()
			imgui.Text(strings.Join(row.Components, ", "))
		}
		imgui.EndTable()
	}

	imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.page+1, pages, len(rows)))
	imgui.SameLine()
	if imgui.Button("Prev") && eb.page > 0 {
		eb.page--
	}
	imgui.SameLine()
	if imgui.Button("Next") && eb.page < pages-1 {
		eb.page++
	}
}

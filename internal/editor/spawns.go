package editor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/CParaschivDev/Phantasm-LTP-Monster-Editor/internal/spawn"
)

var spawnColumns = []string{"Index", "Name", "Count", "StartX", "StartY", "EndX", "EndY", "Distance", "Dir", "Value"}

func (ui *UI) buildSpawnsTab() {
	ui.mapDrop = tview.NewDropDown().SetLabel(" Map ")
	ui.mapDrop.SetOptions(nil, nil)

	ui.spotDrop = tview.NewDropDown().SetLabel(" Spot ")
	ui.spotDrop.SetOptions(nil, nil)

	ui.spawnTable = tview.NewTable().SetFixed(1, 0).SetSelectable(true, false)
	ui.spawnTable.SetBorder(true).SetTitle(" Spawns (MonsterSpawn.xml)  a:add e:edit d:delete  n:new spot x:delete spot ")
	ui.spawnTable.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		switch ev.Rune() {
		case 'a':
			ui.addSpawn()
			return nil
		case 'e':
			ui.editSpawn()
			return nil
		case 'd':
			ui.deleteSpawn()
			return nil
		case 'n':
			ui.newSpot()
			return nil
		case 'x':
			ui.deleteSpot()
			return nil
		}
		return ev
	})

	selectors := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(ui.mapDrop, 0, 1, false).
		AddItem(ui.spotDrop, 0, 2, false)

	panel := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(selectors, 1, 0, false).
		AddItem(ui.spawnTable, 0, 1, true)

	ui.tabs.AddPage("spawns", panel, true, false)
}

func (ui *UI) refreshMapDrop() {
	doc := ui.sess.Spawns
	opts := make([]string, 0, len(doc.Maps))
	for _, m := range doc.Maps {
		opts = append(opts, fmt.Sprintf("%d - %s", m.Number, m.Name))
	}
	ui.mapDrop.SetOptions(opts, func(text string, _ int) {
		num, err := strconv.Atoi(strings.TrimSpace(strings.SplitN(text, " - ", 2)[0]))
		if err != nil {
			return
		}
		ui.curMap = num
		ui.refreshSpotDrop()
	})
	if len(opts) > 0 {
		ui.mapDrop.SetCurrentOption(0)
	} else {
		ui.curMap = -1
		ui.refreshSpotDrop()
	}
}

func (ui *UI) refreshSpotDrop() {
	ui.curSpot = -1
	mp := ui.sess.Spawns.FindMap(ui.curMap)
	if mp == nil {
		ui.spotDrop.SetOptions(nil, nil)
		ui.refreshSpawnTable()
		return
	}
	opts := make([]string, 0, len(mp.Spots))
	for i, s := range mp.Spots {
		opts = append(opts, fmt.Sprintf("%02d. Type=%d  %s", i+1, s.Type, s.Description))
	}
	ui.spotDrop.SetOptions(opts, func(_ string, index int) {
		ui.curSpot = index
		ui.refreshSpawnTable()
	})
	if len(opts) > 0 {
		ui.spotDrop.SetCurrentOption(0)
	} else {
		ui.refreshSpawnTable()
	}
}

func (ui *UI) currentSpot() *spawn.Spot {
	mp := ui.sess.Spawns.FindMap(ui.curMap)
	if mp == nil || ui.curSpot < 0 || ui.curSpot >= len(mp.Spots) {
		return nil
	}
	return mp.Spots[ui.curSpot]
}

func (ui *UI) refreshSpawnTable() {
	ui.spawnTable.Clear()
	for col, name := range spawnColumns {
		ui.spawnTable.SetCell(0, col, tview.NewTableCell("[::b]"+name).SetSelectable(false))
	}
	sp := ui.currentSpot()
	if sp == nil {
		return
	}
	for row, entry := range sp.Spawns {
		res := ui.sess.Monsters.Resolve(entry.Index)
		cells := []string{
			strconv.Itoa(entry.Index),
			res.DisplayName(),
			optText(entry.Count),
			optText(entry.StartX),
			optText(entry.StartY),
			optText(entry.EndX),
			optText(entry.EndY),
			optText(entry.Distance),
			optText(entry.Dir),
			optText(entry.Value),
		}
		for col, text := range cells {
			cell := tview.NewTableCell(tview.Escape(text))
			if !res.Known() {
				cell.SetTextColor(tcell.ColorRed)
			}
			ui.spawnTable.SetCell(row+1, col, cell)
		}
	}
}

func (ui *UI) selectedSpawnRow() int {
	sp := ui.currentSpot()
	if sp == nil {
		return -1
	}
	row, _ := ui.spawnTable.GetSelection()
	row-- // header
	if row < 0 || row >= len(sp.Spawns) {
		return -1
	}
	return row
}

func (ui *UI) addSpawn() {
	if ui.currentSpot() == nil {
		ui.setMessage("Select a map and spot first.")
		return
	}
	ui.openSpawnForm("Add Spawn", spawn.Spawn{Dir: spawn.Int(-1)}, func(entry spawn.Spawn) error {
		return ui.sess.AddSpawn(ui.curMap, ui.curSpot, entry)
	})
}

func (ui *UI) editSpawn() {
	row := ui.selectedSpawnRow()
	if row < 0 {
		ui.setMessage("Select a spawn row first.")
		return
	}
	current := *ui.currentSpot().Spawns[row]
	ui.openSpawnForm("Edit Spawn", current, func(entry spawn.Spawn) error {
		return ui.sess.ReplaceSpawn(ui.curMap, ui.curSpot, row, entry)
	})
}

func (ui *UI) deleteSpawn() {
	row := ui.selectedSpawnRow()
	if row < 0 {
		ui.setMessage("Select a spawn row first.")
		return
	}
	ui.confirm("Delete selected spawn?", func() {
		if err := ui.sess.RemoveSpawn(ui.curMap, ui.curSpot, row); err != nil {
			ui.setMessage(fmt.Sprintf("Delete failed: %v", err))
			return
		}
		ui.refreshSpawnTable()
		ui.refreshWarnings()
		ui.refreshStatus()
	})
}

func (ui *UI) newSpot() {
	if ui.sess.Spawns.FindMap(ui.curMap) == nil {
		ui.setMessage("Select a map first.")
		return
	}
	form := tview.NewForm().
		AddInputField("Type (0..4)", "1", 10, nil, nil).
		AddInputField("Description", "New Spot", 40, nil, nil)
	form.SetBorder(true).SetTitle(" New Spot ")
	form.AddButton("OK", func() {
		typ, err := strconv.Atoi(strings.TrimSpace(form.GetFormItem(0).(*tview.InputField).GetText()))
		if err != nil {
			ui.setMessage("Spot type must be a number.")
			return
		}
		desc := strings.TrimSpace(form.GetFormItem(1).(*tview.InputField).GetText())
		if _, err := ui.sess.AddSpot(ui.curMap, typ, desc); err != nil {
			ui.setMessage(fmt.Sprintf("New spot failed: %v", err))
			return
		}
		ui.pages.RemovePage("spotform")
		ui.refreshSpotDrop()
		ui.refreshStatus()
	})
	form.AddButton("Cancel", func() {
		ui.pages.RemovePage("spotform")
	})
	ui.pages.AddPage("spotform", center(form, 60, 11), true, true)
	ui.app.SetFocus(form)
}

func (ui *UI) deleteSpot() {
	if ui.currentSpot() == nil {
		ui.setMessage("Select a spot first.")
		return
	}
	ui.confirm("Delete selected spot and all its spawns?", func() {
		if err := ui.sess.RemoveSpot(ui.curMap, ui.curSpot); err != nil {
			ui.setMessage(fmt.Sprintf("Delete spot failed: %v", err))
			return
		}
		ui.refreshSpotDrop()
		ui.refreshWarnings()
		ui.refreshStatus()
	})
}

// openSpawnForm shows the spawn attribute form. Empty inputs mean "attribute
// absent" and stay absent in the saved file.
func (ui *UI) openSpawnForm(title string, initial spawn.Spawn, apply func(spawn.Spawn) error) {
	form := tview.NewForm().
		AddInputField("Index", strconv.Itoa(initial.Index), 12, nil, nil).
		AddInputField("Distance", optText(initial.Distance), 12, nil, nil).
		AddInputField("StartX", optText(initial.StartX), 12, nil, nil).
		AddInputField("StartY", optText(initial.StartY), 12, nil, nil).
		AddInputField("EndX", optText(initial.EndX), 12, nil, nil).
		AddInputField("EndY", optText(initial.EndY), 12, nil, nil).
		AddInputField("Dir", optText(initial.Dir), 12, nil, nil).
		AddInputField("Count", optText(initial.Count), 12, nil, nil).
		AddInputField("Value", optText(initial.Value), 12, nil, nil)
	form.SetBorder(true).SetTitle(" " + title + " ")

	field := func(i int) string {
		return strings.TrimSpace(form.GetFormItem(i).(*tview.InputField).GetText())
	}
	form.AddButton("OK", func() {
		index, err := strconv.Atoi(field(0))
		if err != nil {
			ui.setMessage("Monster index must be a number.")
			return
		}
		entry := spawn.Spawn{Index: index}
		labels := []string{"Distance", "StartX", "StartY", "EndX", "EndY", "Dir", "Count", "Value"}
		dst := []**int{&entry.Distance, &entry.StartX, &entry.StartY, &entry.EndX, &entry.EndY, &entry.Dir, &entry.Count, &entry.Value}
		for i, d := range dst {
			text := field(i + 1)
			if text == "" {
				continue
			}
			v, err := strconv.Atoi(text)
			if err != nil {
				ui.setMessage(fmt.Sprintf("%s must be a number or empty.", labels[i]))
				return
			}
			*d = spawn.Int(v)
		}
		if err := apply(entry); err != nil {
			ui.setMessage(fmt.Sprintf("%s failed: %v", title, err))
			return
		}
		ui.pages.RemovePage("spawnform")
		ui.refreshSpawnTable()
		ui.refreshWarnings()
		ui.refreshStatus()
	})
	form.AddButton("Cancel", func() {
		ui.pages.RemovePage("spawnform")
	})
	ui.pages.AddPage("spawnform", center(form, 44, 25), true, true)
	ui.app.SetFocus(form)
}

func optText(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// center wraps a primitive in spacer flexes so it floats mid-screen.
func center(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 0, true).
			AddItem(nil, 0, 1, false), width, 0, true).
		AddItem(nil, 0, 1, false)
}

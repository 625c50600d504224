package editor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rivo/tview"

	"github.com/CParaschivDev/Phantasm-LTP-Monster-Editor/internal/data"
)

func (ui *UI) buildMonstersTab() {
	ui.monSearch = tview.NewInputField().SetLabel(" Search ").SetFieldWidth(0).SetPlaceholder("index or name...")
	ui.monSearch.SetChangedFunc(func(string) {
		ui.refreshMonsterList()
	})

	ui.monList = tview.NewList().ShowSecondaryText(false)
	ui.monList.SetBorder(true).SetTitle(" Monsters (Monster.txt) ")
	ui.monList.SetChangedFunc(func(row int, _, _ string, _ rune) {
		if row >= 0 && row < len(ui.monIndices) {
			ui.loadForm(ui.monIndices[row])
		}
	})

	ui.monForm = tview.NewForm()
	ui.monForm.SetBorder(true).SetTitle(" Record ")

	left := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(ui.monSearch, 1, 0, false).
		AddItem(ui.monList, 0, 1, true)

	panel := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(left, 0, 1, true).
		AddItem(ui.monForm, 0, 1, false)

	ui.tabs.AddPage("monsters", panel, true, true)
}

func (ui *UI) refreshMonsterList() {
	query := strings.ToLower(strings.TrimSpace(ui.monSearch.GetText()))
	ui.monList.Clear()
	ui.monIndices = ui.monIndices[:0]
	for _, m := range ui.sess.Monsters.Records() {
		label := fmt.Sprintf("%4d  -  %s", m.Index, m.Name)
		if query != "" && !strings.Contains(strings.ToLower(label), query) {
			continue
		}
		ui.monIndices = append(ui.monIndices, m.Index)
		ui.monList.AddItem(label, "", 0, nil)
	}
	if len(ui.monIndices) > 0 {
		ui.loadForm(ui.monIndices[0])
	} else {
		ui.monForm.Clear(true)
		ui.formIndex = -1
	}
}

// loadForm rebuilds the edit form for one record, one input per schema
// column, so custom column layouts render without code changes.
func (ui *UI) loadForm(index int) {
	m := ui.sess.Monsters.Get(index)
	if m == nil {
		return
	}
	ui.formIndex = index
	ui.monForm.Clear(true)
	for i, f := range ui.sess.Schema().Fields() {
		var value string
		switch {
		case f.Kind == data.KindString:
			value = m.Name
		case i == 0:
			value = strconv.Itoa(m.Index)
		default:
			value = strconv.Itoa(m.Stat(f.Name))
		}
		ui.monForm.AddInputField(f.Name, value, 24, nil, nil)
	}
	ui.monForm.AddButton("Apply", ui.applyForm)
	ui.monForm.AddButton("New", ui.newMonster)
	ui.monForm.AddButton("Duplicate", ui.duplicateMonster)
	ui.monForm.AddButton("Delete", ui.deleteMonster)
}

// applyForm parses every input and replaces the record in one shot. Any
// non-numeric value in a numeric column rejects the whole edit.
func (ui *UI) applyForm() {
	if ui.formIndex < 0 {
		return
	}
	rec := data.Monster{Stats: make(map[string]int)}
	for i, f := range ui.sess.Schema().Fields() {
		item := ui.monForm.GetFormItemByLabel(f.Name)
		if item == nil {
			continue
		}
		text := strings.TrimSpace(item.(*tview.InputField).GetText())
		if f.Kind == data.KindString {
			rec.Name = text
			continue
		}
		v, err := strconv.Atoi(text)
		if err != nil {
			ui.setMessage(fmt.Sprintf("%s: %q is not a number; edit rejected.", f.Name, text))
			return
		}
		if i == 0 {
			rec.Index = v
		} else {
			rec.Stats[f.Name] = v
		}
	}
	if err := ui.sess.ApplyMonster(ui.formIndex, rec); err != nil {
		ui.setMessage(fmt.Sprintf("Apply failed: %v", err))
		return
	}
	ui.setMessage(fmt.Sprintf("Monster %d updated in memory; Ctrl-S writes it to disk.", rec.Index))
	ui.refreshMonsterList()
	ui.selectMonster(rec.Index)
	ui.refreshWarnings()
	ui.refreshStatus()
}

func (ui *UI) newMonster() {
	m, err := ui.sess.NewMonster()
	if err != nil {
		ui.setMessage(fmt.Sprintf("New monster failed: %v", err))
		return
	}
	ui.monSearch.SetText("")
	ui.refreshMonsterList()
	ui.selectMonster(m.Index)
	ui.setMessage(fmt.Sprintf("Added monster %d.", m.Index))
	ui.refreshStatus()
}

func (ui *UI) duplicateMonster() {
	if ui.formIndex < 0 {
		return
	}
	m, err := ui.sess.DuplicateMonster(ui.formIndex)
	if err != nil {
		ui.setMessage(fmt.Sprintf("Duplicate failed: %v", err))
		return
	}
	ui.refreshMonsterList()
	ui.selectMonster(m.Index)
	ui.setMessage(fmt.Sprintf("Duplicated as monster %d.", m.Index))
	ui.refreshStatus()
}

func (ui *UI) deleteMonster() {
	if ui.formIndex < 0 {
		return
	}
	index := ui.formIndex
	ui.confirm(fmt.Sprintf("Delete monster %d?", index), func() {
		if err := ui.sess.DeleteMonster(index); err != nil {
			ui.setMessage(fmt.Sprintf("Delete failed: %v", err))
			return
		}
		ui.refreshMonsterList()
		ui.refreshWarnings()
		ui.setMessage(fmt.Sprintf("Deleted monster %d.", index))
		ui.refreshStatus()
	})
}

func (ui *UI) selectMonster(index int) {
	for row, idx := range ui.monIndices {
		if idx == index {
			ui.monList.SetCurrentItem(row)
			ui.loadForm(index)
			return
		}
	}
}

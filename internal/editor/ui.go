// Package editor is the terminal UI shell. It renders the session's tables
// and routes every mutation back through it; no file state lives here.
package editor

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/CParaschivDev/Phantasm-LTP-Monster-Editor/internal/session"
	"github.com/CParaschivDev/Phantasm-LTP-Monster-Editor/internal/validate"
)

const helpText = " [black:gold]F2[-:-] monsters  [black:gold]F3[-:-] spawns  [black:gold]Ctrl-S[-:-] save all  [black:gold]F5[-:-] validate  [black:gold]F6[-:-] regen list  [black:gold]F7[-:-] list diff  [black:gold]F8[-:-] setbase sync  [black:gold]Ctrl-Q[-:-] quit "

type UI struct {
	sess *session.Session

	app      *tview.Application
	pages    *tview.Pages
	tabs     *tview.Pages
	warnings *tview.TextView
	status   *tview.TextView
	help     *tview.TextView

	// monsters tab
	monSearch  *tview.InputField
	monList    *tview.List
	monForm    *tview.Form
	monIndices []int // list row → monster index
	formIndex  int   // record shown in the form, -1 when none

	// spawns tab
	mapDrop    *tview.DropDown
	spotDrop   *tview.DropDown
	spawnTable *tview.Table
	curMap     int // selected map number, -1 when none
	curSpot    int // selected spot index, -1 when none

	message string
}

// Run opens the loaded session in the terminal UI and blocks until quit.
func Run(sess *session.Session) error {
	ui := &UI{
		sess:      sess,
		app:       tview.NewApplication(),
		formIndex: -1,
		curMap:    -1,
		curSpot:   -1,
		message:   "Ready.",
	}
	ui.build()
	ui.refreshAll()
	return ui.app.SetRoot(ui.pages, true).EnableMouse(true).Run()
}

func (ui *UI) build() {
	ui.tabs = tview.NewPages()
	ui.buildMonstersTab()
	ui.buildSpawnsTab()

	ui.warnings = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	ui.warnings.SetBorder(true).SetTitle(" Warnings ")

	ui.status = tview.NewTextView().SetDynamicColors(true)
	ui.help = tview.NewTextView().SetDynamicColors(true).SetText(helpText)

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(ui.tabs, 0, 1, true).
		AddItem(ui.warnings, 8, 0, false).
		AddItem(ui.status, 1, 0, false).
		AddItem(ui.help, 1, 0, false)

	ui.pages = tview.NewPages().AddPage("main", root, true, true)
	ui.app.SetFocus(ui.monList)
	ui.app.SetInputCapture(ui.handleGlobalKeys)
}

func (ui *UI) handleGlobalKeys(ev *tcell.EventKey) *tcell.EventKey {
	switch ev.Key() {
	case tcell.KeyCtrlQ, tcell.KeyCtrlC:
		ui.app.Stop()
		return nil
	case tcell.KeyF2:
		ui.tabs.SwitchToPage("monsters")
		ui.app.SetFocus(ui.monList)
		return nil
	case tcell.KeyF3:
		ui.tabs.SwitchToPage("spawns")
		ui.app.SetFocus(ui.spawnTable)
		return nil
	case tcell.KeyCtrlS:
		ui.saveAll()
		return nil
	case tcell.KeyF5:
		ui.refreshWarnings()
		ui.setMessage("Dry-run validation finished.")
		return nil
	case tcell.KeyF6:
		ui.sess.RegenerateDisplayList()
		ui.setMessage(fmt.Sprintf("%s will be regenerated on save.", "MonsterList.xml"))
		ui.refreshStatus()
		return nil
	case tcell.KeyF7:
		ui.showListDiff()
		return nil
	case tcell.KeyF8:
		ui.showSetBaseReport()
		return nil
	}
	return ev
}

func (ui *UI) saveAll() {
	results := ui.sess.SaveAll()
	if len(results) == 0 {
		ui.setMessage("Nothing to save.")
		return
	}
	var parts []string
	for _, r := range results {
		if r.Err != nil {
			parts = append(parts, fmt.Sprintf("%s %s (%v)", r.Name, r.Status, r.Err))
		} else {
			parts = append(parts, fmt.Sprintf("%s %s", r.Name, r.Status))
		}
	}
	ui.setMessage(strings.Join(parts, " | "))
	ui.refreshAll()
}

func (ui *UI) showListDiff() {
	diff, err := ui.sess.PreviewListDiff()
	if err != nil {
		ui.setMessage(fmt.Sprintf("Diff failed: %v", err))
		return
	}
	if diff == "" {
		diff = "No differences. The generated display list matches the existing file."
	}
	ui.showText(" MonsterList.xml diff ", diff)
}

func (ui *UI) showSetBaseReport() {
	report, err := ui.sess.SetBaseReport()
	if err != nil {
		ui.setMessage(fmt.Sprintf("Setbase scan failed: %v", err))
		return
	}
	var b strings.Builder
	for _, f := range report {
		if !f.Present {
			fmt.Fprintf(&b, "%s: file missing\n", f.Name)
			continue
		}
		fmt.Fprintf(&b, "%s: %d missing entries\n", f.Name, len(f.Missing))
		for _, idx := range f.Missing {
			fmt.Fprintf(&b, "  %d  %s\n", idx, ui.sess.Monsters.Resolve(idx).DisplayName())
		}
	}
	ui.showText(" MonsterSetBase sync ", b.String())
}

// showText opens a scrollable full-screen overlay; Esc closes it.
func (ui *UI) showText(title, text string) {
	tv := tview.NewTextView().SetScrollable(true).SetText(text)
	tv.SetBorder(true).SetTitle(title)
	tv.SetDoneFunc(func(tcell.Key) {
		ui.pages.RemovePage("overlay")
	})
	ui.pages.AddPage("overlay", tv, true, true)
	ui.app.SetFocus(tv)
}

// confirm shows a yes/no modal and calls onYes when accepted.
func (ui *UI) confirm(text string, onYes func()) {
	modal := tview.NewModal().
		SetText(text).
		AddButtons([]string{"Yes", "Cancel"}).
		SetDoneFunc(func(_ int, label string) {
			ui.pages.RemovePage("confirm")
			if label == "Yes" {
				onYes()
			}
		})
	ui.pages.AddPage("confirm", modal, true, true)
	ui.app.SetFocus(modal)
}

func (ui *UI) setMessage(msg string) {
	ui.message = msg
	ui.refreshStatus()
}

func (ui *UI) refreshAll() {
	ui.refreshMonsterList()
	ui.refreshMapDrop()
	ui.refreshWarnings()
	ui.refreshStatus()
}

func (ui *UI) refreshWarnings() {
	findings := ui.sess.Validate()
	ui.warnings.Clear()
	for _, f := range findings {
		color := "yellow"
		if f.Severity == validate.SeverityError {
			color = "red"
		}
		fmt.Fprintf(ui.warnings, "[%s]%s[-]\n", color, tview.Escape(f.String()))
	}
	if len(findings) == 0 {
		fmt.Fprint(ui.warnings, "[green]No findings.[-]\n")
	}
}

func (ui *UI) refreshStatus() {
	st := ui.sess.Stats()
	dirty := ""
	if ui.sess.DirtyAny() {
		dirty = " [red]*unsaved*[-]"
	}
	ui.status.SetText(fmt.Sprintf(" %s | Monsters: %d | Maps: %d | Spots: %d | Spawns: %d | Encoding: %s%s | %s",
		ui.sess.Folder, st.Monsters, st.Maps, st.Spots, st.Spawns, st.Encoding, dirty, tview.Escape(ui.message)))
}

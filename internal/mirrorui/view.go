package mirrorui

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/pixil98/go-spellbook/internal/display"
	"github.com/pixil98/go-spellbook/internal/spell"
	"github.com/pixil98/go-spellbook/internal/spellsync"
)

const (
	emptySlot = "-"
	readyText = "ready"
)

// Row is one line of the mirror table.
type Row struct {
	Slot      string
	Ability   string
	Remaining string
}

// Rows lists every slot in order, followed by cooling abilities that are not slotted.
func Rows(m *spellsync.Mirror) []Row {
	slots := m.Slots()
	rows := make([]Row, 0, spell.SlotCount)

	for i, id := range slots {
		r := Row{Slot: spell.Slot(i).String(), Ability: emptySlot}
		if id != "" {
			r.Ability = display.Title(string(id))
			r.Remaining = remainingText(m.Remaining(id))
		}
		rows = append(rows, r)
	}

	for _, cd := range m.Cooldowns() {
		if slots.Contains(cd.Ability) {
			continue
		}
		rows = append(rows, Row{
			Ability:   display.Title(string(cd.Ability)),
			Remaining: remainingText(cd.Remaining),
		})
	}

	return rows
}

func remainingText(n int) string {
	if n <= 0 {
		return readyText
	}
	return strconv.Itoa(n)
}

// View renders a mirror in a terminal table. It only reads from the mirror.
type View struct {
	mirror *spellsync.Mirror
	app    *tview.Application
	table  *tview.Table

	pending atomic.Bool
	stopped atomic.Bool
}

func NewView(m *spellsync.Mirror) *View {
	v := &View{
		mirror: m,
		app:    tview.NewApplication(),
		table:  tview.NewTable(),
	}

	v.table.SetFixed(1, 0)
	v.table.SetBorder(true)
	v.table.SetTitle(fmt.Sprintf(" %s ", display.Title(m.Player().String())))

	v.app.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		if ev.Key() == tcell.KeyEscape || ev.Rune() == 'q' {
			v.app.Stop()
			return nil
		}
		return ev
	})
	v.app.SetRoot(v.table, true)

	v.Render()
	return v
}

// SetScreen replaces the terminal, mostly for tests.
func (v *View) SetScreen(s tcell.Screen) {
	v.app.SetScreen(s)
}

// Render redraws the table contents from the mirror. It must run on the UI goroutine
// once Run has started.
func (v *View) Render() {
	v.table.Clear()

	header := []string{"Slot", "Ability", "Cooldown"}
	for c, h := range header {
		v.table.SetCell(0, c, tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false).
			SetExpansion(1))
	}

	for r, row := range Rows(v.mirror) {
		color := tcell.ColorWhite
		switch {
		case row.Ability == emptySlot:
			color = tcell.ColorGray
		case row.Remaining == readyText:
			color = tcell.ColorGreen
		case row.Remaining != "":
			color = tcell.ColorRed
		}

		for c, text := range []string{row.Slot, row.Ability, row.Remaining} {
			v.table.SetCell(r+1, c, tview.NewTableCell(text).
				SetTextColor(color).
				SetExpansion(1))
		}
	}
}

// Refresh schedules a Render on the UI goroutine without blocking the caller. Refreshes
// requested while one is queued fold into it; refreshes after Run returns are dropped.
func (v *View) Refresh() {
	if v.stopped.Load() || !v.pending.CompareAndSwap(false, true) {
		return
	}
	v.app.QueueUpdateDraw(func() {
		v.pending.Store(false)
		v.Render()
	})
}

// Run shows the view until the user quits or ctx is done.
func (v *View) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	defer v.stopped.Store(true)

	go func() {
		select {
		case <-ctx.Done():
			v.app.Stop()
		case <-done:
		}
	}()

	if err := v.app.Run(); err != nil {
		return fmt.Errorf("running mirror view: %w", err)
	}
	return nil
}

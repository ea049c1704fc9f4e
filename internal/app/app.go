// Package app wires the sectioned storage, the query mirror, and the
// list view into the demo application.
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pstuifzand/tui-listview/internal/config"
	"github.com/pstuifzand/tui-listview/internal/query"
	"github.com/pstuifzand/tui-listview/internal/search"
	"github.com/pstuifzand/tui-listview/internal/storage"
	"github.com/pstuifzand/tui-listview/internal/theme"
	"github.com/pstuifzand/tui-listview/internal/ui"
)

// App is the main application controller. All storage mutation happens on
// the event loop goroutine; the database watcher only signals it.
type App struct {
	screen *ui.Screen
	list   *ui.ListView
	store  storage.Storage
	cfg    *config.Config
	theme  *theme.Theme

	// memory is non-nil in the in-memory demo mode.
	memory *storage.MemoryStorage

	// database mode
	refresh     func() error
	refreshC    chan struct{}
	cancelWatch context.CancelFunc

	searching   bool
	searchInput string
	matches     []search.Match

	statusMsg  string
	statusTime time.Time
	counter    int
	quit       bool
}

// New builds the app. With a database configured it mirrors the query;
// otherwise it runs the in-memory demo.
func New(cfg *config.Config) (*App, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}

	a := &App{
		screen:     screen,
		cfg:        cfg,
		theme:      theme.Named(cfg.Theme),
		statusMsg:  "Ready",
		statusTime: time.Now(),
	}

	if cfg.Database != "" {
		if err := a.setupDatabaseMode(); err != nil {
			screen.Close()
			return nil, err
		}
	} else {
		a.setupMemoryMode()
	}

	a.list = ui.NewListView(a.store, renderItem, a.theme)
	a.list.SelectFirstItem()
	return a, nil
}

// renderItem formats both demo payloads: plain values from the in-memory
// mode and query rows from the database mode.
func renderItem(item any) string {
	if row, ok := item.(query.Row); ok {
		if len(row.Fields) > 0 {
			return row.Fields[0]
		}
		return fmt.Sprintf("row %d", row.ID)
	}
	return fmt.Sprint(item)
}

func (a *App) setupMemoryMode() {
	m := storage.NewMemoryStorage()
	m.SetSupplementaryProvider(func(kind string, section int) any {
		switch kind {
		case storage.HeaderKind:
			return fmt.Sprintf("Section %d", section)
		case storage.FooterKind:
			count := m.NumberOfItems(section)
			if count == 1 {
				return "1 item"
			}
			return fmt.Sprintf("%d items", count)
		}
		return nil
	})
	m.SetHeaderKind(storage.HeaderKind)
	m.AddItems([]any{"apples", "bread", "coffee"}, 0)
	m.AddItems([]any{"water plants", "vacuum stairs"}, 1)

	a.memory = m
	a.store = m
	a.counter = 1
}

func (a *App) setupDatabaseMode() error {
	ctx := context.Background()
	db, err := query.Open(ctx, a.cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	controller := query.NewController(db, a.cfg.Query)
	adapter := query.NewAdapter(controller)
	a.store = adapter
	a.refresh = func() error { return controller.Refresh(context.Background()) }

	if err := a.refresh(); err != nil {
		db.Close()
		return fmt.Errorf("initial refresh failed: %w", err)
	}

	a.refreshC = make(chan struct{}, 1)
	watchCtx, cancel := context.WithCancel(ctx)
	a.cancelWatch = cancel
	debounce := time.Duration(a.cfg.DebounceMillis) * time.Millisecond
	go func() {
		err := query.Watch(watchCtx, a.cfg.Database, debounce, func() {
			select {
			case a.refreshC <- struct{}{}:
			default:
			}
		})
		if err != nil && watchCtx.Err() == nil {
			log.Printf("watch stopped: %v", err)
		}
	}()

	return nil
}

// Run starts the main event loop.
func (a *App) Run() error {
	defer a.Close()

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			event := a.screen.PollEvent()
			eventChan <- event
			if event == nil {
				break
			}
		}
	}()

	ticker := time.NewTicker(50 * time.Millisecond) // ~20 FPS
	defer ticker.Stop()

	for !a.quit {
		select {
		case ev := <-eventChan:
			if ev != nil {
				a.handleEvent(ev)
			}
		case <-a.refreshChan():
			if err := a.refresh(); err != nil {
				a.setStatus("Refresh failed: " + err.Error())
				log.Printf("refresh failed: %v", err)
			} else {
				a.setStatus("Refreshed")
			}
		case <-ticker.C:
			a.list.Tick()
			a.render()
		}
	}
	return nil
}

// refreshChan returns a never-ready channel in memory mode so the select
// in Run stays uniform.
func (a *App) refreshChan() <-chan struct{} {
	if a.refreshC == nil {
		return nil
	}
	return a.refreshC
}

func (a *App) handleEvent(ev tcell.Event) {
	keyEvent, ok := ev.(*tcell.EventKey)
	if !ok {
		return
	}

	if a.searching {
		a.handleSearchKey(keyEvent)
		return
	}

	switch keyEvent.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		a.quit = true
		return
	case tcell.KeyDown:
		a.list.SelectNext()
		return
	case tcell.KeyUp:
		a.list.SelectPrev()
		return
	}

	switch keyEvent.Rune() {
	case 'q':
		a.quit = true
	case 'j':
		a.list.SelectNext()
	case 'k':
		a.list.SelectPrev()
	case '/':
		a.searching = true
		a.searchInput = ""
	case 'n':
		a.jumpToNextMatch()
	case 'R':
		if a.refresh != nil {
			if err := a.refresh(); err != nil {
				a.setStatus("Refresh failed: " + err.Error())
			} else {
				a.setStatus("Refreshed")
			}
		}
	default:
		if a.memory != nil {
			a.handleMemoryKey(keyEvent.Rune())
		}
	}
}

// handleMemoryKey drives the in-memory demo mutations.
func (a *App) handleMemoryKey(r rune) {
	switch r {
	case 'a':
		section := 0
		if p, ok := a.list.SelectedPosition(); ok {
			section = p.Section
		}
		a.memory.AddItem(a.nextLabel(), section)
		a.setStatus("Added item")
	case 'A':
		a.memory.AddItem(a.nextLabel(), a.memory.NumberOfSections())
		a.setStatus("Added item in new section")
	case 'i':
		if p, ok := a.list.SelectedPosition(); ok {
			if err := a.memory.InsertItem(a.nextLabel(), p); err != nil {
				a.setStatus(err.Error())
			} else {
				a.setStatus("Inserted item")
			}
		}
	case 'd':
		if p, ok := a.list.SelectedPosition(); ok {
			if err := a.memory.RemoveItemsAt([]storage.Position{p}); err != nil {
				a.setStatus(err.Error())
			} else {
				a.setStatus("Removed item")
			}
		}
	case 'D':
		// Batch removal demo: the selected item plus the rest of its
		// section, in one record.
		if p, ok := a.list.SelectedPosition(); ok {
			positions := make([]storage.Position, 0)
			for i := p.Item; i < a.memory.NumberOfItems(p.Section); i++ {
				positions = append(positions, storage.Position{Item: i, Section: p.Section})
			}
			if err := a.memory.RemoveItemsAt(positions); err != nil {
				a.setStatus(err.Error())
			} else {
				a.setStatus(fmt.Sprintf("Removed %d items", len(positions)))
			}
		}
	case 'J':
		a.moveSelected(1)
	case 'K':
		a.moveSelected(-1)
	case 'r':
		if p, ok := a.list.SelectedPosition(); ok {
			if item, found := a.memory.ItemAt(p); found {
				a.memory.ReplaceItem(item, a.nextLabel())
				a.setStatus("Replaced item")
			}
		}
	}
}

func (a *App) moveSelected(delta int) {
	p, ok := a.list.SelectedPosition()
	if !ok {
		return
	}
	to := storage.Position{Item: p.Item + delta, Section: p.Section}
	if to.Item < 0 {
		return
	}
	if err := a.memory.MoveItem(p, to); err != nil {
		a.setStatus(err.Error())
		return
	}
	a.setStatus("Moved item")
}

func (a *App) nextLabel() string {
	label := fmt.Sprintf("item %d", a.counter)
	a.counter++
	return label
}

func (a *App) handleSearchKey(keyEvent *tcell.EventKey) {
	switch keyEvent.Key() {
	case tcell.KeyEscape:
		a.searching = false
		a.matches = nil
	case tcell.KeyEnter:
		a.searching = false
		a.matches = search.Find(a.store, func(item any) string { return renderItem(item) }, a.searchInput)
		if len(a.matches) == 0 {
			a.setStatus("No matches for " + a.searchInput)
			return
		}
		a.list.SelectPosition(a.matches[0].Position)
		a.setStatus(fmt.Sprintf("%d matches", len(a.matches)))
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(a.searchInput) > 0 {
			a.searchInput = a.searchInput[:len(a.searchInput)-1]
		}
	default:
		if r := keyEvent.Rune(); r != 0 {
			a.searchInput += string(r)
		}
	}
}

func (a *App) jumpToNextMatch() {
	if len(a.matches) == 0 {
		return
	}
	current, ok := a.list.SelectedPosition()
	if !ok {
		current = storage.Position{Item: -1, Section: 0}
	}
	if match, found := search.Next(a.matches, current); found {
		a.list.SelectPosition(match.Position)
	}
}

func (a *App) setStatus(msg string) {
	a.statusMsg = msg
	a.statusTime = time.Now()
}

func (a *App) render() {
	width, height := a.screen.Size()
	if width <= 0 || height < 3 {
		return
	}
	a.screen.Clear(a.theme.Base)

	title := "tui-listview"
	if a.cfg.Database != "" {
		title += " — " + a.cfg.Database
	}
	a.screen.FillLine(0, width, a.theme.Header)
	a.screen.DrawText(0, 0, ui.Truncate(title, width), a.theme.Header, width)

	a.list.Render(a.screen, 0, 1, width, height-2)

	status := a.statusMsg
	if a.searching {
		status = "/" + a.searchInput
	} else if time.Since(a.statusTime) > 5*time.Second {
		status = ""
	}
	a.screen.FillLine(height-1, width, a.theme.Status)
	a.screen.DrawText(0, height-1, ui.Truncate(status, width), a.theme.Status, width)

	a.screen.Show()
}

// Close releases the terminal and stops the watcher.
func (a *App) Close() {
	if a.cancelWatch != nil {
		a.cancelWatch()
	}
	a.screen.Close()
}

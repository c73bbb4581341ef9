// internal/app/app.go
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ferrule/celled/internal/command"
	"github.com/ferrule/celled/internal/config"
	"github.com/ferrule/celled/internal/docmodel"
	"github.com/ferrule/celled/internal/errfetch"
	"github.com/ferrule/celled/internal/event"
	"github.com/ferrule/celled/internal/input"
	"github.com/ferrule/celled/internal/logger"
	"github.com/ferrule/celled/internal/monitor"
	"github.com/ferrule/celled/internal/session"
	"github.com/ferrule/celled/internal/utils"
	"github.com/ferrule/celled/internal/widget"
	"github.com/gdamore/tcell/v2"
)

// checkpointDelay is how long typing must pause before the in-flight
// edit is checkpointed to the monitor snapshot.
const checkpointDelay = 300 * time.Millisecond

// App hosts a small grid over a document and drives edit sessions
// through the command router, exercising the full lifecycle: typing
// into cells, formula entry, click-away saves and reload recovery.
type App struct {
	screen    tcell.Screen
	cfg       *config.Config
	doc       *docmodel.Document
	router    *command.Router
	notifier  *event.Notifier
	monitor   *monitor.Monitor
	processor *input.Processor
	statusBar *statusBar
	focusHost *focusHost
	overlay   *editOverlay
	offer     *conversionPrompt
	fetcher   errfetch.Fetcher

	cursor *gridCursor

	mu           sync.Mutex
	sess         *session.Session
	lastSnapshot string
	snapDebounce utils.Debouncer

	quit          chan struct{}
	quitOnce      sync.Once
	redrawRequest chan struct{}
	forceQuit     bool
}

// NewApp wires the host around a document.
func NewApp(cfg *config.Config, doc *docmodel.Document) (*App, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create tcell screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize tcell screen: %w", err)
	}
	s.EnableMouse()

	a := &App{
		screen:        s,
		cfg:           cfg,
		doc:           doc,
		router:        command.NewRouter(),
		notifier:      event.NewNotifier(),
		monitor:       monitor.New(),
		processor:     input.NewProcessor(),
		statusBar:     newStatusBar(),
		focusHost:     newFocusHost(),
		overlay:       &editOverlay{},
		offer:         &conversionPrompt{},
		fetcher:       newDemoFetcher(),
		cursor:        &gridCursor{},
		quit:          make(chan struct{}),
		redrawRequest: make(chan struct{}, 1),
	}

	// The host's default bindings sit at the bottom of the stack; an
	// active session shadows them and falls through selectively.
	a.router.Push(a.baseCommands())

	doc.SetOnChange(a.requestRedraw)
	a.notifier.On(event.KindSave, func(ev event.LifecycleEvent) {
		a.statusBar.SetTemporaryMessage("Saved %s", ev.Position.ColRef)
	})
	a.notifier.On(event.KindCancel, func(ev event.LifecycleEvent) {
		a.statusBar.SetTemporaryMessage("Cancelled")
	})
	a.notifier.On(event.KindChange, func(ev event.LifecycleEvent) {
		// Typing bursts coalesce into one monitor checkpoint.
		a.snapDebounce.Debounce(checkpointDelay, a.checkpoint)
		a.requestRedraw()
	})
	return a, nil
}

// Run starts the event and drawing loops.
func (a *App) Run() error {
	defer a.screen.Fini()
	defer a.snapDebounce.Stop()

	go a.eventLoop()

	a.statusBar.SetTemporaryMessage("celled - Enter edit | = formula | Ctrl+Q quit")
	a.requestRedraw()

	for {
		select {
		case <-a.quit:
			logger.Infof("App: exiting")
			return nil
		case <-a.redrawRequest:
			a.draw()
		}
	}
}

func (a *App) eventLoop() {
	for {
		ev := a.screen.PollEvent()
		if ev == nil {
			return
		}
		switch eventData := ev.(type) {
		case *tcell.EventResize:
			a.screen.Sync()
			a.requestRedraw()
		case *tcell.EventKey:
			a.handleKeyEvent(eventData)
			a.requestRedraw()
		case *tcell.EventMouse:
			if eventData.Buttons()&tcell.Button1 != 0 {
				x, y := eventData.Position()
				a.handleClick(x, y)
				a.requestRedraw()
			}
		}
	}
}

// handleClick routes a mouse press. Inside the editing cell it moves
// the widget cursor; anywhere else it is the click-away signal, and the
// focus host tells the active session. With save_on_focus_loss disabled
// the click-away cancels instead.
func (a *App) handleClick(x, y int) {
	if a.activeSession() == nil {
		return
	}
	if w, ok := a.overlay.Current(); ok && a.clickInOverlay(x, y, w) {
		return
	}
	if a.cfg.Editor.SaveOnFocusLoss {
		a.focusHost.fireClipboardFocus()
		return
	}
	a.router.Trigger(command.CancelEdit)
}

func (a *App) requestRedraw() {
	select {
	case a.redrawRequest <- struct{}{}:
	default:
	}
}

func (a *App) activeSession() *session.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sess != nil && a.sess.Disposed() {
		a.sess = nil
	}
	return a.sess
}

func (a *App) setSession(s *session.Session) {
	a.mu.Lock()
	a.sess = s
	a.mu.Unlock()
}

// errorSink routes async failures to the statusbar and the log.
func (a *App) errorSink(err error) {
	logger.Errorf("App: %v", err)
	a.statusBar.SetTemporaryMessage("Error: %v", err)
	a.requestRedraw()
}

// checkpoint keeps the latest session snapshot so an interrupted edit
// can be reconstructed.
func (a *App) checkpoint() {
	if doc, ok := a.monitor.Latest(); ok {
		a.mu.Lock()
		a.lastSnapshot = doc
		a.mu.Unlock()
	}
}

// simulateReload tears the active session down the way a page unload
// would (owner teardown, no save/cancel event) and rebuilds it verbatim
// from the monitor snapshot.
func (a *App) simulateReload() {
	a.checkpoint()
	s := a.activeSession()
	if s == nil {
		return
	}
	s.Dispose()
	a.setSession(nil)

	a.mu.Lock()
	doc := a.lastSnapshot
	a.mu.Unlock()
	snap, ok := monitor.Decode(doc)
	if !ok {
		a.statusBar.SetTemporaryMessage("No snapshot to restore")
		return
	}
	a.openSessionAt(snap.Position.RowID, snap.Position.ColRef, nil, &snap)
	a.statusBar.SetTemporaryMessage("Restored in-flight edit")
}

// openSession opens an edit on the cell under the grid cursor.
func (a *App) openSession(typed *string) {
	rowID := a.doc.RowIDAt(a.cursor.Row())
	col := a.currentColumn()
	if col == nil {
		return
	}
	a.openSessionAt(rowID, col.Ref, typed, nil)
}

func (a *App) openSessionAt(rowID int64, colRef string, typed *string, restored *monitor.Snapshot) {
	if a.activeSession() != nil {
		return
	}
	col, err := a.doc.Column(colRef)
	if err != nil {
		a.errorSink(err)
		return
	}
	ctor := widget.NewTextCtor(col.Type)

	// Fast-accept: a single keystroke on a toggle-style cell commits
	// directly, never opening an editor.
	if typed != nil && rowID != 0 {
		handled, err := session.MaybeAcceptWithoutEditor(a.doc, col, rowID, ctor, *typed)
		if err != nil {
			a.errorSink(err)
			return
		}
		if handled {
			return
		}
	}

	s, err := session.New(session.Params{
		Doc:       a.doc,
		Col:       col,
		Cursor:    a.cursor,
		RowID:     rowID,
		SectionID: 1,
		TableID:   "main",
		Anchor:    a.overlay,
		ValueCtor: ctor,
		TypedText: typed,
		Restored:  restored,
		Readonly:  a.cfg.Editor.Readonly,
		Router:    a.router,
		Notifier:  a.notifier,
		Monitor:   a.monitor,
		Host:      a.focusHost,
		Offer:     a.offer,
		Fetcher:   a.fetcher,
		Sink:      a.errorSink,
	})
	if err != nil {
		a.errorSink(err)
		return
	}
	a.setSession(s)
}

// requestQuit consults the leave guards before actually quitting;
// pressing quit twice forces it.
func (a *App) requestQuit() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	safe := true
	for _, guard := range a.focusHost.leaveGuards() {
		ok, err := guard(ctx)
		if err != nil || !ok {
			safe = false
			break
		}
	}
	if !safe && !a.forceQuit {
		a.statusBar.SetTemporaryMessage("Unsaved edit! Ctrl+Q again to force quit.")
		a.forceQuit = true
		return
	}
	a.quitOnce.Do(func() { close(a.quit) })
}

package rod

import (
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultRecycleAfter is the number of rendered pages a browser serves
// before it is replaced.
const DefaultRecycleAfter = 75

// Manager owns the headless Chrome process behind a Client. Chrome leaks
// memory over a long documentation crawl and never returns to its baseline,
// so the manager swaps in a fresh browser once enough pages have been
// rendered through the current one.
//
// Manager is safe for concurrent use.
type Manager struct {
	mu           sync.Mutex
	browser      *rod.Browser
	launcher     *launcher.Launcher
	rendered     int
	recycleAfter int
	closed       bool
}

// NewManager launches a headless Chrome browser that is replaced after
// recycleAfter rendered pages (DefaultRecycleAfter when <= 0). Close must be
// called when the Manager is no longer needed.
func NewManager(recycleAfter int) (*Manager, error) {
	if recycleAfter <= 0 {
		recycleAfter = DefaultRecycleAfter
	}
	m := &Manager{recycleAfter: recycleAfter}
	if err := m.launch(); err != nil {
		return nil, err
	}
	return m, nil
}

// Browser returns a browser ready to render a page, replacing the current
// one first if it has served its quota. Callers report a completed render
// with PageDone.
func (m *Manager) Browser() *rod.Browser {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.rendered >= m.recycleAfter {
		m.recycle()
	}
	return m.browser
}

// PageDone records one rendered page against the recycling quota.
func (m *Manager) PageDone() {
	m.mu.Lock()
	m.rendered++
	m.mu.Unlock()
}

// Close shuts down the browser and its launcher process. Safe to call more
// than once.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	return m.shutdown()
}

// PID reports the launcher's process ID, zero once closed.
func (m *Manager) PID() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.launcher == nil {
		return 0
	}
	return m.launcher.PID()
}

// launch starts a browser with flags that keep background tabs from being
// throttled or killed mid-render.
func (m *Manager) launch() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	url, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(url)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	m.browser = browser
	m.launcher = l
	return nil
}

// shutdown closes the current browser and kills its launcher. Caller holds mu.
func (m *Manager) shutdown() error {
	var err error
	if m.browser != nil {
		err = m.browser.Close()
		m.browser = nil
	}
	if m.launcher != nil {
		m.launcher.Kill()
		m.launcher = nil
	}
	return err
}

// recycle replaces the browser with a fresh one. A failed launch keeps the
// old browser running so the crawl can continue. Caller holds mu.
func (m *Manager) recycle() {
	old, oldLauncher := m.browser, m.launcher
	m.browser, m.launcher = nil, nil

	if err := m.launch(); err != nil {
		m.browser, m.launcher = old, oldLauncher
		return
	}

	if old != nil {
		_ = old.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	m.rendered = 0
}

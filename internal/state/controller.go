package state

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"simple-bible/internal/logger"
	"simple-bible/internal/observe"
)

// Controller is the single owner of UiState.
//
// Setters are meant to be called from one goroutine (the UI loop). Each
// replaces the state with a modified copy, publishes it and saves the changed
// field in the background. Reads never block.
type Controller struct {
	prefs              Preferences
	history            HistoryLog
	bounds             ChapterBounds
	defaultTranslation string

	mu      sync.Mutex // serialises writers: the UI loop and the start-up restore
	touched slot       // slots set by the user; restore leaves them alone
	state   atomic.Pointer[UiState]
	feed  *observe.Broadcaster[UiState]
	tasks background
	ready chan struct{}
}

// slot names one persisted field.
type slot uint8

const (
	slotTranslation slot = 1 << iota
	slotBookIndex
	slotChapter
	slotZoom

	allSlots = slotTranslation | slotBookIndex | slotChapter | slotZoom
)

// Option configures a Controller.
type Option func(*Controller)

// WithDefaultTranslation sets the translation used on first start and after ResetApp.
func WithDefaultTranslation(translation string) Option {
	return func(c *Controller) {
		if translation != "" {
			c.defaultTranslation = translation
		}
	}
}

// WithChapterBounds lets SetTranslation reset a chapter the new translation lacks.
func WithChapterBounds(b ChapterBounds) Option {
	return func(c *Controller) {
		c.bounds = b
	}
}

// NewController returns a controller holding the default state and starts
// restoring persisted values in the background. Ready is closed once the
// restore has finished.
func NewController(prefs Preferences, history HistoryLog, opts ...Option) *Controller {
	c := &Controller{
		prefs:              prefs,
		history:            history,
		defaultTranslation: DefaultTranslation,
		feed:               observe.New[UiState](),
		ready:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	initial := c.newUiState()
	c.state.Store(&initial)

	go c.restore()
	return c
}

func (c *Controller) newUiState() UiState {
	return NewUiState(c.defaultTranslation)
}

// restore overlays persisted values without saving them again. Slots the
// user changed in the meantime keep the user's value.
func (c *Controller) restore() {
	defer close(c.ready)
	ctx := context.Background()

	if index, err := c.prefs.BookIndex(ctx); restored("book index", err) && index >= 0 {
		c.restoreSlot(slotBookIndex, func(s UiState) UiState {
			s.Selection = s.Selection.WithBookIndex(index)
			return s
		})
	}
	if chapter, err := c.prefs.Chapter(ctx); restored("chapter", err) && chapter >= 1 {
		c.restoreSlot(slotChapter, func(s UiState) UiState {
			s.Selection = s.Selection.WithChapter(chapter)
			return s
		})
	}
	if zoom, err := c.prefs.Zoom(ctx); restored("zoom", err) && ZoomAllowed(zoom) {
		c.restoreSlot(slotZoom, func(s UiState) UiState {
			s.Display = DisplayConfig{FontSize: DefaultFontSize, Zoom: zoom}
			return s
		})
	}
	if translation, err := c.prefs.Translation(ctx); restored("translation", err) && translation != "" {
		c.restoreSlot(slotTranslation, func(s UiState) UiState {
			s.Selection = s.Selection.WithTranslation(translation)
			return s
		})
	}
	logger.Debug("restored state: %+v", c.State())
}

func restored(slot string, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrNotSet):
		return false
	default:
		logger.Warn("restore %s: %v", slot, err)
		return false
	}
}

// Ready is closed once persisted values have been applied.
func (c *Controller) Ready() <-chan struct{} {
	return c.ready
}

// Wait blocks until every background save started so far has finished.
func (c *Controller) Wait() {
	c.tasks.Wait()
}

// State returns the current state.
func (c *Controller) State() UiState {
	return *c.state.Load()
}

// Subscribe returns a channel that first yields the current state and then
// every replacement. A subscriber that falls behind only sees the latest
// state. The returned func unsubscribes.
func (c *Controller) Subscribe() (<-chan UiState, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.feed.SubscribeWith(*c.state.Load())
}

// update replaces the state with fn's result and marks touch as set by the user.
func (c *Controller) update(touch slot, fn func(UiState) UiState) UiState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touched |= touch
	return c.store(fn)
}

// restoreSlot applies a persisted value unless the user already set the slot.
func (c *Controller) restoreSlot(sl slot, fn func(UiState) UiState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.touched&sl != 0 {
		logger.Debug("keeping user value over persisted slot %d", sl)
		return
	}
	c.store(fn)
}

func (c *Controller) store(fn func(UiState) UiState) UiState {
	next := fn(*c.state.Load())
	c.state.Store(&next)
	c.feed.Publish(next)
	return next
}

// SetTranslation selects translation. When chapter bounds are known and the
// current chapter does not exist in translation, the chapter goes back to 1.
func (c *Controller) SetTranslation(translation string) {
	next := c.setTranslation(translation)
	c.tasks.Go("save translation", func(ctx context.Context) error {
		return c.prefs.SaveTranslation(ctx, translation)
	})

	if c.bounds == nil {
		return
	}
	count, err := c.bounds.ChapterCount(translation, next.Selection.BookIndex)
	if err != nil {
		logger.Debug("chapter count for %s book %d: %v", translation, next.Selection.BookIndex, err)
		return
	}
	if next.Selection.Chapter > count {
		c.SetChapter(1)
	}
}

func (c *Controller) setTranslation(translation string) UiState {
	return c.update(slotTranslation, func(s UiState) UiState {
		s.Selection = s.Selection.WithTranslation(translation)
		return s
	})
}

// SetBookIndex selects a book and moves to its first chapter, which every
// book has. Negative indices are ignored.
func (c *Controller) SetBookIndex(index int) {
	if index < 0 {
		logger.Debug("ignoring book index %d", index)
		return
	}
	c.setBookIndex(index)
	c.setChapter(1)

	c.tasks.Go("save book index", func(ctx context.Context) error {
		return c.prefs.SaveBookIndex(ctx, index)
	})
	c.tasks.Go("save chapter", func(ctx context.Context) error {
		return c.prefs.SaveChapter(ctx, 1)
	})
}

func (c *Controller) setBookIndex(index int) {
	c.update(slotBookIndex, func(s UiState) UiState {
		s.Selection = s.Selection.WithBookIndex(index)
		return s
	})
}

// SetChapter selects chapter as given. Out of range chapters are left for the
// Bible data provider, which serves chapter 1 instead.
func (c *Controller) SetChapter(chapter int) {
	c.setChapter(chapter)
	c.tasks.Go("save chapter", func(ctx context.Context) error {
		return c.prefs.SaveChapter(ctx, chapter)
	})
}

func (c *Controller) setChapter(chapter int) {
	c.update(slotChapter, func(s UiState) UiState {
		s.Selection = s.Selection.WithChapter(chapter)
		return s
	})
}

// OnZoom multiplies the zoom by delta. A result outside the open interval
// (LowerLimit, UpperLimit) is dropped and the zoom stays where it was. It
// reports whether the zoom changed.
func (c *Controller) OnZoom(delta float64) bool {
	zoom := c.State().Display.Zoom * delta
	if !ZoomAllowed(zoom) {
		return false
	}
	c.setZoom(zoom)
	c.tasks.Go("save zoom", func(ctx context.Context) error {
		return c.prefs.SaveZoom(ctx, zoom)
	})
	return true
}

func (c *Controller) setZoom(zoom float64) {
	c.update(slotZoom, func(s UiState) UiState {
		s.Display = DisplayConfig{FontSize: DefaultFontSize, Zoom: zoom}
		return s
	})
}

// InsertSelectionToHistory appends selection to the reading history.
func (c *Controller) InsertSelectionToHistory(ctx context.Context, selection Selection) error {
	_, err := c.history.Insert(ctx, selection)
	return err
}

// AllHistory streams the reading history as selections in insertion order,
// once for the current contents and again after every insert. The channel is
// closed when ctx is done.
func (c *Controller) AllHistory(ctx context.Context) (<-chan []Selection, error) {
	records, err := c.history.Watch(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan []Selection)
	go func() {
		defer close(out)
		for recs := range records {
			select {
			case out <- Selections(recs):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// ResetApp puts the state back to its defaults. Persisted values are untouched.
func (c *Controller) ResetApp() {
	c.update(allSlots, func(UiState) UiState {
		return c.newUiState()
	})
}

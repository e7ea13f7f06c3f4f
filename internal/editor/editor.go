// Package editor implements the draft/publish workflow of a single post:
// form state, validation, dirty tracking, debounced auto-save and the
// notifications the user sees.
package editor

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jeremyjsx/quill/internal/auth"
	"github.com/jeremyjsx/quill/internal/posts"
	"github.com/jeremyjsx/quill/internal/routes"
	"github.com/rs/zerolog"
)

const (
	DefaultAutoSaveDelay   = 30 * time.Second
	DefaultNotificationTTL = 3 * time.Second
	DefaultRequestTimeout  = 10 * time.Second
)

const (
	MsgLoaded         = "Post loaded successfully"
	MsgLoadFailed     = "Failed to fetch post. Please try again."
	MsgFixBeforeSave  = "Please fix the validation errors before saving"
	MsgFixBeforePub   = "Please fix the validation errors before publishing"
	MsgAutoSaved      = "Draft saved automatically"
	MsgSaved          = "Draft saved successfully"
	MsgAutoSaveFailed = "Auto-save failed. Please try saving manually."
	MsgSaveFailed     = "Failed to save. Please try again."
	MsgPublished      = "Post published successfully"
	MsgPublishFailed  = "Failed to publish. Please try again."
)

var (
	// ErrBusy is returned by a manual save or publish while another request
	// of the same session is in flight.
	ErrBusy = errors.New("editor: request already in flight")
	// ErrClosed is returned for requests whose result arrived after Close.
	ErrClosed = errors.New("editor: session closed")
)

type Field string

const (
	FieldTitle   Field = "title"
	FieldContent Field = "content"
	FieldTags    Field = "tags"
)

type Form struct {
	Title   string
	Content string
	Tags    string
}

// API is the slice of the Post Service the editor talks to. *client.Client
// satisfies it.
type API interface {
	Get(ctx context.Context, id string) (*posts.Post, error)
	SaveDraft(ctx context.Context, req posts.SaveRequest) (*posts.Post, error)
	Publish(ctx context.Context, req posts.SaveRequest) (*posts.Post, error)
}

type Navigator interface {
	Navigate(route string)
}

type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// State is a point-in-time copy of the session.
type State struct {
	ID               string
	Form             Form
	Dirty            bool
	LastSaved        time.Time
	Loading          bool
	ValidationErrors map[Field]string
	WordCount        int
	Error            string
	Notification     *Notification
}

type Option func(*Session)

func WithAutoSaveDelay(d time.Duration) Option {
	return func(s *Session) { s.autoSaveDelay = d }
}

func WithNotificationTTL(d time.Duration) Option {
	return func(s *Session) { s.notificationTTL = d }
}

func WithRequestTimeout(d time.Duration) Option {
	return func(s *Session) { s.requestTimeout = d }
}

func WithNavigator(n Navigator) Option {
	return func(s *Session) { s.nav = n }
}

// WithOnNotify registers a hook called whenever the notification changes.
func WithOnNotify(fn func(*Notification)) Option {
	return func(s *Session) { s.onNotify = fn }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.logger = l.With().Str("component", "editor").Logger() }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

type Session struct {
	api    API
	nav    Navigator
	logger zerolog.Logger
	now    func() time.Time

	autoSaveDelay   time.Duration
	notificationTTL time.Duration
	requestTimeout  time.Duration
	onNotify        func(*Notification)

	notifier *Notifier
	autosave *debouncer

	// ctx bounds auto-save requests and is cancelled by Close.
	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	id        string
	form      Form
	dirty     bool
	edits     uint64
	lastSaved time.Time
	loading   bool
	errs      map[Field]string
	wordCount int
	pageErr   string
	inFlight  bool
	closed    bool
}

// Open starts an editor session. Editing is gated, so an unauthenticated
// session gets auth.ErrUnauthenticated.
func Open(session auth.Session, api API, opts ...Option) (*Session, error) {
	if err := auth.Require(session); err != nil {
		return nil, err
	}

	s := &Session{
		api:             api,
		nav:             NavigatorFunc(func(string) {}),
		logger:          zerolog.Nop(),
		now:             time.Now,
		autoSaveDelay:   DefaultAutoSaveDelay,
		notificationTTL: DefaultNotificationTTL,
		requestTimeout:  DefaultRequestTimeout,
		errs:            map[Field]string{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.notifier = NewNotifier(s.notificationTTL, s.onNotify)
	s.notifier.now = s.now
	s.autosave = newDebouncer(s.autoSaveDelay, s.autoSave)
	return s, nil
}

// Load fills the form from the stored post. An empty id starts a new post.
func (s *Session) Load(ctx context.Context, id string) error {
	if id == "" {
		s.mu.Lock()
		s.id, s.form, s.dirty, s.wordCount = "", Form{}, false, 0
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	post, err := s.api.Get(ctx, id)

	s.mu.Lock()
	s.loading = false
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		s.pageErr = MsgLoadFailed
		s.mu.Unlock()
		s.logger.Error().Err(err).Str("post_id", id).Msg("load post failed")
		s.notifier.Show(KindError, MsgLoadFailed)
		return err
	}
	s.id = post.ID
	s.form = Form{Title: post.Title, Content: post.Content, Tags: posts.JoinTags(post.Tags)}
	s.wordCount = countWords(post.Content)
	s.dirty = false
	s.errs = map[Field]string{}
	s.pageErr = ""
	s.mu.Unlock()

	s.notifier.Show(KindSuccess, MsgLoaded)
	return nil
}

// Edit sets one form field, marks the form dirty and re-arms auto-save.
func (s *Session) Edit(field Field, value string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	switch field {
	case FieldTitle:
		s.form.Title = value
	case FieldContent:
		s.form.Content = value
		s.wordCount = countWords(value)
	case FieldTags:
		s.form.Tags = value
	default:
		s.mu.Unlock()
		return
	}
	s.dirty = true
	s.edits++
	delete(s.errs, field)
	s.mu.Unlock()

	s.autosave.Trigger()
}

// Validate records the current field errors and reports whether there are none.
func (s *Session) Validate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = validateForm(s.form)
	return len(s.errs) == 0
}

// Save stores the form as a draft on explicit request.
func (s *Session) Save(ctx context.Context) error {
	if !s.Validate() {
		s.notifier.Show(KindError, MsgFixBeforeSave)
		return s.validationError()
	}
	req, edits, err := s.begin(true)
	if err != nil {
		return err
	}
	s.autosave.Cancel()

	ctx, cancel := s.requestContext(ctx)
	defer cancel()
	post, err := s.api.SaveDraft(ctx, req)
	return s.finishSave(post, err, edits, false)
}

// Publish stores the form and marks the post published.
func (s *Session) Publish(ctx context.Context) error {
	if !s.Validate() {
		s.notifier.Show(KindError, MsgFixBeforePub)
		return s.validationError()
	}

	req, _, err := s.begin(true)
	if err != nil {
		return err
	}
	ctx, cancel := s.requestContext(ctx)
	defer cancel()
	_, err = s.api.Publish(ctx, req)

	s.mu.Lock()
	s.inFlight, s.loading = false, false
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		s.pageErr = MsgPublishFailed
		s.mu.Unlock()
		s.logger.Error().Err(err).Str("post_id", req.ID).Msg("publish failed")
		s.notifier.Show(KindError, MsgPublishFailed)
		return err
	}
	s.pageErr = ""
	s.mu.Unlock()

	s.notifier.Show(KindSuccess, MsgPublished)
	s.nav.Navigate(routes.List)
	return nil
}

// Close cancels the pending auto-save and notification timers. Results of
// requests still in flight are dropped.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.autosave.Stop()
	s.notifier.Close()
	s.cancel()
}

func (s *Session) State() State {
	s.mu.Lock()
	st := State{
		ID:               s.id,
		Form:             s.form,
		Dirty:            s.dirty,
		LastSaved:        s.lastSaved,
		Loading:          s.loading,
		ValidationErrors: make(map[Field]string, len(s.errs)),
		WordCount:        s.wordCount,
		Error:            s.pageErr,
	}
	for k, v := range s.errs {
		st.ValidationErrors[k] = v
	}
	s.mu.Unlock()

	if n, ok := s.notifier.Current(); ok {
		st.Notification = &n
	}
	return st
}

func (s *Session) autoSave() {
	s.mu.Lock()
	if s.closed || !s.dirty || s.inFlight || len(validateForm(s.form)) > 0 {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	req, edits, err := s.begin(false)
	if err != nil {
		return
	}
	ctx, cancel := s.requestContext(context.Background())
	defer cancel()

	post, err := s.api.SaveDraft(ctx, req)
	_ = s.finishSave(post, err, edits, true)
}

// requestContext bounds a request by the request timeout and cancels it when
// the session closes.
func (s *Session) requestContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, s.requestTimeout)
	stop := context.AfterFunc(s.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// begin claims the single in-flight slot and snapshots the request.
func (s *Session) begin(manual bool) (posts.SaveRequest, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return posts.SaveRequest{}, 0, ErrClosed
	}
	if s.inFlight {
		return posts.SaveRequest{}, 0, ErrBusy
	}
	s.inFlight = true
	if manual {
		s.loading = true
	}
	return posts.SaveRequest{
		ID:      s.id,
		Title:   s.form.Title,
		Content: s.form.Content,
		Tags:    s.form.Tags,
	}, s.edits, nil
}

func (s *Session) finishSave(post *posts.Post, err error, edits uint64, auto bool) error {
	s.mu.Lock()
	s.inFlight, s.loading = false, false
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		msg := MsgSaveFailed
		if auto {
			msg = MsgAutoSaveFailed
		}
		s.pageErr = msg
		id := s.id
		s.mu.Unlock()
		s.logger.Error().Err(err).Str("post_id", id).Bool("auto", auto).Msg("save draft failed")
		s.notifier.Show(KindError, msg)
		return err
	}

	s.lastSaved = s.now()
	stale := s.edits != edits
	if !stale {
		s.dirty = false
	}
	s.pageErr = ""
	adopted := ""
	if s.id == "" && post.ID != "" {
		s.id = post.ID
		adopted = post.ID
	}
	s.mu.Unlock()

	if auto {
		s.notifier.Show(KindSuccess, MsgAutoSaved)
	} else {
		s.notifier.Show(KindSuccess, MsgSaved)
	}
	if adopted != "" {
		s.logger.Debug().Str("post_id", adopted).Msg("new post stored")
		s.nav.Navigate(routes.Edit(adopted))
	}
	// Edits made during the request are not stored yet.
	if stale {
		s.autosave.Trigger()
	}
	return nil
}

func (s *Session) validationError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fields := make(map[string]string, len(s.errs))
	for k, v := range s.errs {
		fields[string(k)] = v
	}
	return &posts.ValidationError{Fields: fields}
}

func validateForm(f Form) map[Field]string {
	errs := map[Field]string{}
	for k, v := range posts.ValidateFields(f.Title, f.Content) {
		errs[Field(k)] = v
	}
	if !posts.ValidateTags(f.Tags) {
		errs[FieldTags] = posts.MsgTagTooLong
	}
	return errs
}

func countWords(s string) int {
	return len(strings.Fields(s))
}

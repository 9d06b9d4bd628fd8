package scroll

import (
	"context"
	"sync"

	"github.com/Iron-Ham/scanform/internal/errors"
	"github.com/Iron-Ham/scanform/internal/event"
	"github.com/Iron-Ham/scanform/internal/logging"
	"github.com/Iron-Ham/scanform/internal/records"
)

// Scroller brings a displayed record into view.
type Scroller interface {
	ScrollTo(ctx context.Context, rec records.View) error
}

// Cue plays audible feedback.
type Cue interface {
	Success()
	Error()
}

// Options configures a Refresher.
type Options struct {
	Intent   *Intent
	Resolver records.Resolver
	Scroller Scroller
	Cue      Cue
	// Models lists the sub-view models that scroll and cue. Sub-views of
	// other models are left alone.
	Models []string
	Bus    *event.Bus
	Logger *logging.Logger
}

// Refresher reacts to sub-view searches and record reloads.
type Refresher struct {
	mu     sync.RWMutex
	models map[string]bool

	intent   *Intent
	resolver records.Resolver
	scroller Scroller
	cue      Cue
	bus      *event.Bus
	logger   *logging.Logger
}

// NewRefresher creates a Refresher. A nil Intent gets a fresh one.
func NewRefresher(opts Options) *Refresher {
	r := &Refresher{
		intent:   opts.Intent,
		resolver: opts.Resolver,
		scroller: opts.Scroller,
		cue:      opts.Cue,
		bus:      opts.Bus,
		logger:   logging.OrNop(opts.Logger).WithComponent("scroll"),
	}
	if r.intent == nil {
		r.intent = &Intent{}
	}
	r.SetModels(opts.Models)
	return r
}

// Intent returns the intent the refresher consumes.
func (r *Refresher) Intent() *Intent { return r.intent }

// SetModels replaces the set of handled models.
func (r *Refresher) SetModels(models []string) {
	set := make(map[string]bool, len(models))
	for _, m := range models {
		set[m] = true
	}
	r.mu.Lock()
	r.models = set
	r.mu.Unlock()
}

// Handles reports whether sub-views of model scroll and cue.
func (r *Refresher) Handles(model string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.models[model]
}

// AfterSearch runs once sv has reloaded its records. When sv's model is
// handled and an intent is armed, the intent is consumed and the record
// matching its token is scrolled into view. A barcode matching no record
// plays the error cue and is otherwise not an error.
func (r *Refresher) AfterSearch(ctx context.Context, sv *records.SubView) error {
	if sv == nil || !r.Handles(sv.Model) {
		return nil
	}
	token, ok := r.intent.Take()
	if !ok {
		return nil
	}

	rec, err := r.resolver.Resolve(records.Collect(sv), token)
	if err != nil {
		if !errors.Is(err, errors.ErrRecordNotFound) {
			return err
		}
		r.logger.Info("scanned record not displayed", "token", token, "model", sv.Model)
		r.bus.Publish(event.NewRecordMissingEvent(token, "scroll"))
		if r.cue != nil {
			r.cue.Error()
		}
		return nil
	}
	return r.scrollTo(ctx, rec)
}

// RecordReloaded runs after a single record of a model's sub-view was
// reloaded, e.g. after a quantity update. It scrolls to the record and
// plays the success cue.
func (r *Refresher) RecordReloaded(ctx context.Context, model string, rec records.View) error {
	if rec == nil || !r.Handles(model) {
		return nil
	}
	if err := r.scrollTo(ctx, rec); err != nil {
		return err
	}
	if r.cue != nil {
		r.cue.Success()
	}
	return nil
}

func (r *Refresher) scrollTo(ctx context.Context, rec records.View) error {
	if r.scroller == nil {
		return nil
	}
	if err := r.scroller.ScrollTo(ctx, rec); err != nil {
		return errors.Wrapf(err, "scroll to record %s", rec.ID())
	}
	return nil
}

package dispatch

import (
	"context"

	"github.com/Iron-Ham/scanform/internal/host"
	"github.com/Iron-Ham/scanform/internal/matcher"
)

// Keywords are the command barcodes. An empty keyword disables its command.
type Keywords struct {
	New       string
	Edit      string
	Cancel    string
	Save      string
	PagerPrev string
	PagerNext string
}

// DefaultKeywords returns the stock command barcodes.
func DefaultKeywords() Keywords {
	return Keywords{
		New:       "O-CMD.NEW",
		Edit:      "O-CMD.EDIT",
		Cancel:    "O-CMD.CANCEL",
		Save:      "O-CMD.SAVE",
		PagerPrev: "O-CMD.PAGER-PREV",
		PagerNext: "O-CMD.PAGER-NEXT",
	}
}

// BuildActions binds each keyword to the capability target provides.
// Keywords whose capability target lacks are left out, so the matcher treats
// them like any other token. Pager keywords prefer host.LegacyPager over
// host.Pager.
func BuildActions(target any, kw Keywords) map[string]matcher.Action {
	actions := make(map[string]matcher.Action)
	bind := func(keyword string, action matcher.Action) {
		if keyword != "" && action != nil {
			actions[keyword] = action
		}
	}

	if c, ok := target.(host.Creator); ok {
		bind(kw.New, c.New)
	}
	if e, ok := target.(host.EditStarter); ok {
		bind(kw.Edit, e.Edit)
	}
	if c, ok := target.(host.Canceller); ok {
		bind(kw.Cancel, c.Cancel)
	}
	if s, ok := target.(host.Saver); ok {
		bind(kw.Save, s.Save)
	}

	if lp, ok := target.(host.LegacyPager); ok {
		bind(kw.PagerPrev, func(ctx context.Context) error {
			return lp.ExecutePagerAction(ctx, host.DirectionPrevious)
		})
		bind(kw.PagerNext, func(ctx context.Context) error {
			return lp.ExecutePagerAction(ctx, host.DirectionNext)
		})
	} else if p, ok := target.(host.Pager); ok {
		bind(kw.PagerPrev, p.Previous)
		bind(kw.PagerNext, p.Next)
	}

	return actions
}

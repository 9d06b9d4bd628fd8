package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Iron-Ham/scanform/internal/event"
)

// maxActivity bounds the activity log kept on screen.
const maxActivity = 8

// activityLine is one entry of the activity log.
type activityLine struct {
	Text  string
	Error bool
}

// describeEvent returns the activity log entry for e. Events that are not
// worth a line yield ok == false.
func describeEvent(e event.Event) (activityLine, bool) {
	switch ev := e.(type) {
	case event.CommandInvokedEvent:
		if ev.Err != nil {
			return activityLine{Text: fmt.Sprintf("command %s failed: %v", ev.Keyword, ev.Err), Error: true}, true
		}
		return activityLine{Text: "command " + ev.Keyword}, true
	case event.ScanRejectedEvent:
		if ev.Reason == "reserved" {
			if ev.Suggestion != "" {
				return activityLine{Text: fmt.Sprintf("ignored %s (did you mean %s?)", ev.Token, ev.Suggestion)}, true
			}
			return activityLine{Text: "ignored " + ev.Token}, true
		}
		return activityLine{Text: fmt.Sprintf("rejected %s (%s)", ev.Token, ev.Reason), Error: true}, true
	case event.ScanFinishedEvent:
		if ev.Err != nil {
			return activityLine{Text: fmt.Sprintf("failed %s: %v", ev.Label, ev.Err), Error: true}, true
		}
		return activityLine{Text: fmt.Sprintf("applied %s in %s", ev.Label, ev.Duration.Round(time.Millisecond))}, true
	case event.QuantitySetEvent:
		qty := strconv.FormatFloat(ev.Quantity, 'f', -1, 64)
		return activityLine{Text: fmt.Sprintf("quantity %s on line %s", qty, ev.RecordID)}, true
	case event.RecordMissingEvent:
		return activityLine{Text: ev.Barcode + " is not on this picking", Error: true}, true
	case event.ConfigReloadedEvent:
		if ev.Err != nil {
			return activityLine{Text: "config reload rejected: " + ev.Err.Error(), Error: true}, true
		}
		return activityLine{Text: "config reloaded from " + ev.Path}, true
	default:
		return activityLine{}, false
	}
}

// appendActivity adds line to log, dropping the oldest entries beyond
// maxActivity.
func appendActivity(log []activityLine, line activityLine) []activityLine {
	log = append(log, line)
	if len(log) > maxActivity {
		log = log[len(log)-maxActivity:]
	}
	return log
}

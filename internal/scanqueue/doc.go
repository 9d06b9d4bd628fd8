// Package scanqueue serializes scan application.
//
// A Queue runs submitted tasks one at a time on a single worker goroutine,
// strictly in submission order. A task starts only after the previous one
// has settled, whether it succeeded, failed, or panicked, and a failing task
// never prevents later tasks from running.
//
// Each submission returns a Ticket that settles with its own task's result.
// Queue activity is published on an [event.Bus] as scan.queued, scan.started
// and scan.finished events.
//
// # Usage
//
//	q := scanqueue.New(bus, logger)
//	defer q.Close(ctx)
//
//	ticket := q.Enqueue("8412345678900", func(ctx context.Context) error {
//	    return apply(ctx)
//	})
//	if err := ticket.Wait(ctx); err != nil { ... }
package scanqueue

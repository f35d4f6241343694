// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package scheduler closes polls when their closes_at time passes.

The ranking core treats closes_at as metadata. Closer is the collaborator
that acts on it: each sweep asks the service for due Open polls and closes
them on behalf of their owners.

	closer := scheduler.NewCloser(svc, time.Minute)
	go closer.Run(ctx)

Run stops when ctx is cancelled.
*/
package scheduler

// Package handler contains the page handlers. Every screen is a thin
// presentation layer: capture form state, branch on the envelope result,
// render. The booking API performs all real business logic.
package handler

import (
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/core/domain"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/poll"
	"github.com/SH19-University-of-Glasgow-2024-25/booking-web/internal/web/view"
)

// page is the data common to every rendered template.
type page struct {
	Title string
	Role  domain.Role
	Error *view.ErrorView
}

// ListView is a job-list snapshot prepared for a template: records, the
// loaded flag separating "still fetching" from confirmed-empty, and the
// inline error fragment for the latest failed refresh.
type ListView[T any] struct {
	Records []T
	Loaded  bool
	Error   *view.ErrorView
}

func listView[T any](s poll.Snapshot[T]) ListView[T] {
	return ListView[T]{
		Records: s.Records,
		Loaded:  s.Loaded,
		Error:   view.Errorify(s.Err),
	}
}

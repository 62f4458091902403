package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type PortalMetrics struct {
	studentsRegistered     metric.Int64Counter
	attendanceMarked       metric.Int64Counter
	paymentsRecorded       metric.Int64Counter
	changeRequestsCreated  metric.Int64Counter
	changeRequestsResolved metric.Int64Counter
	notificationsPublished metric.Int64Counter
}

func NewPortalMetrics(meter metric.Meter) (*PortalMetrics, error) {
	pm := &PortalMetrics{}

	var err error

	pm.studentsRegistered, err = meter.Int64Counter(
		"portal.students.registered",
		metric.WithDescription("Total number of students registered"),
		metric.WithUnit("{student}"),
	)
	if err != nil {
		return nil, err
	}

	pm.attendanceMarked, err = meter.Int64Counter(
		"portal.attendance.marked",
		metric.WithDescription("Total number of attendance records marked"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	pm.paymentsRecorded, err = meter.Int64Counter(
		"portal.fees.payments_recorded",
		metric.WithDescription("Total number of fee payments recorded"),
		metric.WithUnit("{payment}"),
	)
	if err != nil {
		return nil, err
	}

	pm.changeRequestsCreated, err = meter.Int64Counter(
		"portal.change_requests.created",
		metric.WithDescription("Total number of profile change requests submitted"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	pm.changeRequestsResolved, err = meter.Int64Counter(
		"portal.change_requests.resolved",
		metric.WithDescription("Total number of profile change requests approved or rejected"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	pm.notificationsPublished, err = meter.Int64Counter(
		"portal.notifications.published",
		metric.WithDescription("Total number of notification events published"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	return pm, nil
}

func (pm *PortalMetrics) RecordStudentRegistered(ctx context.Context) {
	if pm.studentsRegistered == nil {
		return
	}
	pm.studentsRegistered.Add(ctx, 1)
}

func (pm *PortalMetrics) RecordAttendanceMarked(ctx context.Context, status string) {
	if pm.attendanceMarked == nil {
		return
	}
	pm.attendanceMarked.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

func (pm *PortalMetrics) RecordPaymentRecorded(ctx context.Context) {
	if pm.paymentsRecorded == nil {
		return
	}
	pm.paymentsRecorded.Add(ctx, 1)
}

func (pm *PortalMetrics) RecordChangeRequestCreated(ctx context.Context) {
	if pm.changeRequestsCreated == nil {
		return
	}
	pm.changeRequestsCreated.Add(ctx, 1)
}

func (pm *PortalMetrics) RecordChangeRequestResolved(ctx context.Context, outcome string) {
	if pm.changeRequestsResolved == nil {
		return
	}
	pm.changeRequestsResolved.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func (pm *PortalMetrics) RecordNotificationPublished(ctx context.Context, event string) {
	if pm.notificationsPublished == nil {
		return
	}
	pm.notificationsPublished.Add(ctx, 1, metric.WithAttributes(attribute.String("event", event)))
}

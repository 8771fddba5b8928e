package metrics

import (
	"linkreach/internal/bus"
)

// Bridge subscribes the global collector to lifecycle events so components
// emitting on the bus do not need to touch metrics directly.
func Bridge(eb *bus.EventBus) {
	eb.On(bus.EventInvocationStarted, func(e bus.Event) {
		InvocationsTotal.Inc()
		ActiveInvocations.Inc()
	})
	eb.On(bus.EventInvocationFinished, func(e bus.Event) {
		ActiveInvocations.Dec()
		if secs, ok := e.Payload["duration_seconds"].(float64); ok {
			InvocationSeconds.Observe(secs)
		}
		if failed, ok := e.Payload["error"].(bool); ok && failed {
			InvocationErrorsTotal.Inc()
		}
	})
	eb.On(bus.EventAuthFailed, func(e bus.Event) {
		AuthFailuresTotal.Inc()
	})
	eb.On(bus.EventProviderRequested, func(e bus.Event) {
		ProviderRequestsTotal.Inc()
		if secs, ok := e.Payload["duration_seconds"].(float64); ok {
			ProviderLatency.Observe(secs)
		}
	})
	eb.On(bus.EventProviderDegraded, func(e bus.Event) {
		ProviderDegradedTotal.Inc()
	})
	eb.On(bus.EventActionCompleted, func(e bus.Event) {
		if status, ok := e.Payload["status"].(string); ok && status == "sent" {
			ActionsSentTotal.Inc()
		}
	})
}

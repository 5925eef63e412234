package metrics

import "time"

// RecordProviderRequest records the outcome of a single provider request.
func RecordProviderRequest(provider, operation string, duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	ProviderRequestsTotal.WithLabelValues(provider, operation, status).Inc()
	ProviderRequestDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// RecordProviderRetry records a retried provider request.
func RecordProviderRetry(provider, operation string) {
	ProviderRetriesTotal.WithLabelValues(provider, operation).Inc()
}

// RecordSearchIteration records a completed search iteration.
// Result is "matches" when the search returned campsites, "empty" when it
// completed without matches, and "error" when it failed.
func RecordSearchIteration(duration time.Duration, matches int, err error) {
	result := "empty"
	switch {
	case err != nil:
		result = "error"
	case matches > 0:
		result = "matches"
	}
	SearchIterationsTotal.WithLabelValues(result).Inc()
	SearchDuration.Observe(duration.Seconds())
	if matches > 0 {
		CampsitesFoundTotal.Add(float64(matches))
	}
}

// UpdateFacilitiesSearched updates the campground count covered by the
// latest iteration.
func UpdateFacilitiesSearched(count int) {
	FacilitiesSearched.Set(float64(count))
}

// UpdateLedgerSize updates the notification ledger gauge.
func UpdateLedgerSize(count int) {
	LedgerSize.Set(float64(count))
}

// RecordNotification records a delivery attempt on a notification channel.
func RecordNotification(channel string, success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	NotificationsSentTotal.WithLabelValues(channel, status).Inc()
}

// RecordNotificationBatch records the size of a dispatched campsite batch.
func RecordNotificationBatch(size int) {
	NotificationBatchSize.Observe(float64(size))
}

// RecordDBQuery records the duration of a metadata index query.
// Operation should describe the query type (e.g., "upsert_campground").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

package observability

// Metric keys for the catalog service. Instruments are registered once in
// main under the "catalog" namespace and resolved through Metrics; a key
// nobody registered resolves to a no-op instrument.
const (
	// Creation pipeline RED metrics, labelled {use_case, outcome}.
	MUsecaseRequests MetricKey = "usecase_requests_total"
	// Labelled {use_case}.
	MUsecaseDuration MetricKey = "usecase_duration_seconds"

	// HTTP server metrics, labelled {method, route, status} with the route
	// template, never the raw path.
	MHTTPRequests        MetricKey = "http_requests_total"
	MHTTPRequestDuration MetricKey = "http_request_duration_seconds"

	// Calls leaving the pipeline (event bus publication), labelled
	// {peer, endpoint} plus {outcome} on the counter.
	MExternalRequests        MetricKey = "external_requests_total"
	MExternalRequestDuration MetricKey = "external_request_duration_seconds"
)

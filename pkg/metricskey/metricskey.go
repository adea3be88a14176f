// Package metricskey describes the metrics emitted by this module.
package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	// StatsUpstreamRequests is a counter for requests sent to upstream APIs.
	StatsUpstreamRequests = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_upstream_requests",
		Help:         "stats_upstream_requests provides total requests sent to upstream APIs",
		RequiredTags: []string{"host"},
	}

	// StatsUpstreamRetries is a counter for retried upstream requests.
	StatsUpstreamRetries = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_upstream_retries",
		Help:         "stats_upstream_retries provides total retried upstream requests",
		RequiredTags: []string{"host", "reason"},
	}

	// StatsUpstreamFailed is a counter for upstream requests that exhausted retries.
	StatsUpstreamFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_upstream_failed",
		Help:         "stats_upstream_failed provides total upstream requests failed after retries",
		RequiredTags: []string{"host"},
	}

	StatsToolCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_succeeded",
		Help:         "stats_tool_calls_succeeded provides total tool calls succeeded",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_failed",
		Help:         "stats_tool_calls_failed provides total tool calls failed",
		RequiredTags: []string{"tool"},
	}
)

// Perf
var (
	PerfToolCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tool_call",
		Help:         "perf_tool_call provides duration of tool call",
		RequiredTags: []string{"tool"},
	}
)

// Metrics returns slice of metrics from this repo
// keep sorted by name
var Metrics = []*metrics.Describe{
	&PerfToolCall,
	&StatsToolCallsFailed,
	&StatsToolCallsSucceeded,
	&StatsUpstreamFailed,
	&StatsUpstreamRequests,
	&StatsUpstreamRetries,
}

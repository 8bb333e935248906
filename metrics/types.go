// Package metrics defines the types and constants used for metric collection
// and reporting.
package metrics

// Policy defines how multiple values reported for the same metric combine
// over a window.
type Policy int

const (
	Policy_None Policy = iota // no specific policy; the reporter picks
	Policy_Set                // instantaneous value, last report wins
	Policy_Sum                // cumulative value, reports add up
	Policy_Avg                // mean of all reported values
)

// Value is a reported metric value.
type Value float64

// Dimension carries the contextual labels of a report, such as packet type or
// pool name.
type Dimension map[string]string

// Group related constants, prefixed with Group.
const (
	// GroupVoxnet is the group name for voxnet core metrics.
	GroupVoxnet = "voxnet"
)

// Metric name constants. The comment carries the dashboard meaning.
const (
	// NamePoolCreateTotal: objects created by an instrumented pool because it
	// was empty. dimension:poolname
	NamePoolCreateTotal = "pool_create_total"

	// NameEditQueuedTotal: edits appended to a per-server staging buffer.
	// dimension:packettype
	NameEditQueuedTotal = "editsender_edit_queued_total"

	// NameEditPacketsReleasedTotal: finished edit packets handed to the
	// outbound worker.
	NameEditPacketsReleasedTotal = "editsender_packets_released_total"

	// NameEditEncodeFailTotal: edits dropped because their payload failed to
	// encode or fit.
	NameEditEncodeFailTotal = "editsender_encode_fail_total"

	// NameEditNoJurisdictionTotal: edits that matched no server's
	// jurisdiction and were dropped.
	NameEditNoJurisdictionTotal = "editsender_no_jurisdiction_total"

	// NameEditPreServerEvictedTotal: pre-server backlog evictions under the
	// pending-message cap.
	NameEditPreServerEvictedTotal = "editsender_preserver_evicted_total"

	// NameEditPreServerBacklog: current combined depth of the pre-server
	// queues.
	NameEditPreServerBacklog = "editsender_preserver_backlog"

	// NameOutboundQueuedTotal: datagrams accepted by the outbound queue.
	NameOutboundQueuedTotal = "outbound_queued_total"

	// NameOutboundSentTotal: datagrams written to the socket.
	NameOutboundSentTotal = "outbound_sent_total"

	// NameOutboundDroppedTotal: datagrams dropped at the queue (full queue,
	// oversize payload, or missing address).
	NameOutboundDroppedTotal = "outbound_dropped_total"

	// NameOutboundSendErrTotal: socket write failures.
	NameOutboundSendErrTotal = "outbound_send_err_total"

	// NameOutboundQueueDepth: current depth of the outbound queue.
	NameOutboundQueueDepth = "outbound_queue_depth"

	// NameOutboundPacketSizeAvg: average datagram size in bytes.
	NameOutboundPacketSizeAvg = "outbound_packet_size_avg_bytes"
)

// Dimension keys, prefixed with Dim.
const (
	// DimPacketType is the dimension for the packet type of an edit.
	DimPacketType = "packettype"
	// DimPoolName is the dimension for the instrumented pool name.
	DimPoolName = "poolname"
)

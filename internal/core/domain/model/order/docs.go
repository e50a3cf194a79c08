// Package order contains the Order aggregate, the root of the food-delivery
// lifecycle. The aggregate owns two independent state machines: the
// fulfillment status (pending through delivered or cancelled) and the
// payment status (pending through completed, failed, or refunded). They are
// deliberately orthogonal: a cash-on-delivery order is prepared and
// delivered while its payment status never leaves pending.
//
// Orders are immutable in their line items and pricing after creation.
// Every fulfillment transition appends exactly one entry to the append-only
// status history, so the history always reflects the real order of
// transitions. Cancellation and rating records are written exactly once.
package order

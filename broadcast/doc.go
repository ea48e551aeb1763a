// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package broadcast is the in-process fan-out for live result events.
//
// Delivery is best effort and at most once. There is no replay: a
// subscriber sees only what is published after Subscribe returns. A
// subscriber whose buffer is full is disconnected rather than slowing down
// ingestion. The SSE handler reacts to the closed channel by ending the
// stream, and clients reconnect to get a fresh snapshot.
package broadcast

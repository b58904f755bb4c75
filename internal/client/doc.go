// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the client application runtime.
//
// It wires configuration, transport, local storage, the metrics stream, the
// job poller and the client services into one [App], and runs the
// interactive terminal UI on top of them.
package client

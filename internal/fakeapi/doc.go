// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package fakeapi is an in-process stand-in for the orchestration backend.
//
// It serves the REST routes the client adapter calls and the /ws metrics
// stream, keeps all state in memory and issues real (HS256) JWTs so the
// client's expiry handling can be exercised. Generator jobs advance one step
// per status fetch, which makes polling deterministic in tests.
//
// The same backend backs the hidden "orchestra dev-backend" command for
// trying the CLI and TUI without a real deployment.
package fakeapi

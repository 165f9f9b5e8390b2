// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package web exposes the HTTP surface of Gatehouse.
//
// Handlers do not write HTTP responses directly: each returns a tagged
// Outcome (render a view, redirect, or fail), which respond translates to
// HTTP via the Renderer collaborator. That keeps the core's decisions
// separate from HTTP mechanics and from presentation, which the Renderer
// owns entirely.
//
// Protected routes pass through the Gate, which resolves the session cookie
// once and hands the user snapshot to the handler as an explicit argument -
// never through an ambient request context.
package web

// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package devcon

// StartupKey is the history store metadata key holding saved startup lines.
const StartupKey = "startup"

// DefaultStartup runs when no startup source is configured.
const DefaultStartup = ``

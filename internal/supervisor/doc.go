// Basketmine - Market Basket Mining and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketmine

/*
Package supervisor builds the Suture supervision tree for the service.

The tree has two child supervisors under the root:

  - training: the retraining scheduler
  - api: the HTTP server

The split isolates failures. A crash in the training loop restarts the
scheduler without touching the HTTP server, so lookups against the
current model keep serving throughout.

Supervision events are logged through sutureslog, bridged onto the
zerolog global logger.
*/
package supervisor

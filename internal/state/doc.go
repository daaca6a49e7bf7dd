/*
Package state implements the console's single mutable state store.

# Overview

AppState is one aggregate holding everything the UI derives from: theme,
current view, session, the loaded workspace, named pending flags for
in-flight operations, per-view form drafts, the chat transcript, toast,
and layout. It is constructed once at startup and never replaced; logout
resets sub-trees in place.

# Store contract

  - Get returns a deep-cloned snapshot; mutation happens only via Commit.
  - Commit applies a synchronous updater, runs persistence side effects
    for touched fields (theme, auth) before notifying, then calls every
    listener in registration order with the new state.
  - Subscribe returns an unsubscribe function.

Persistence failures are logged, never fatal, and never prevent listener
notification.

# Durable keys

Exactly two values survive restarts: the theme (plain string file) and the
session (JSON file). Both are read synchronously at startup — the theme in
New, the session in HydrateAuth — before the first render decision.
*/
package state

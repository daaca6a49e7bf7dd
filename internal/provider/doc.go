// Package provider is the direct-to-provider data layer: hosted auth
// (password grant, signup, logout) plus filtered row reads and writes
// against the workspace tables. Failures come back in the same coded
// shape the webhook facade produces, so call sites never know which
// variant served them.
package provider

/*
Package types defines the domain records shared across the pilot console.

# Overview

The types package provides shared type definitions for:
  - The business profile (Empresa) with its product and FAQ catalogs
  - WhatsApp connection instances and their settings/event log
  - Chat simulator messages
  - The workspace aggregate returned by the backend

# Field Tags

All records carry JSON tags matching the wire names used by both backends
(the webhook action protocol and the hosted row provider). Wire names are
kept in Portuguese because that is what the backend speaks.

# Identity

ChatMessage ids combine a millisecond timestamp with random hex. They are
collision-tolerant, not cryptographically unique; they only need to tell
two bubbles in one session apart.
*/
package types

// Package backup provides snapshot export and import for the note store.
//
// The Service type builds JSON snapshots of every note, including or
// redacting image payloads, and writes them to a configured Destination,
// falling back to a download sink when the destination cannot be written.
// The Restorer type imports snapshots back, either merging with existing
// notes or replacing them wholesale.
//
// Cloud upload is best-effort: failures are logged and never fail a local
// backup.
package backup

// Package preflight verifies the runtime requirements of a batch run before
// any job starts: interpreter availability, bot script presence, and work
// directory permissions. The `wikibatch status` command renders these
// results; `wikibatch run` logs failures and proceeds, since a missing bot
// is intentionally non-fatal at this layer.
package preflight

// Package cli provides the interactive fieldsync command-line client.
//
// It wires configuration, the local queue, the remote stores, the
// connectivity watcher and the reconnect trigger, then runs a REPL:
//
//	capture photo|note|task|checklist   queue a new capture
//	list [kind]                         show queued captures
//	discard <kind> <id>                 drop a queued capture
//	status                              pending counts and connectivity
//	sync                                sync now
//	offline on|off                      force offline mode
//	login | logout                      manage the access token
//	exit | quit                         leave
//
// Captures are always written locally first; syncing happens when the user
// asks or automatically after connectivity returns.
package cli

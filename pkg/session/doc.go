// Package session persists a debugging session between runs of the debugger.
//
// A session is the set of comments and labels the user attached to addresses
// plus whatever state the loaded plugins want to keep. It is stored as one
// JSON document per debugged target:
//
//	{
//	    "id": "edb-session",
//	    "version": 1,
//	    "timestamp": "2024-05-01T10:00:00.000Z",
//	    "plugin-data": { "<plugin id>": { ... } },
//	    "objects": {
//	        "0000000000001234": { "type": "comment", "comment": "...", "module": "/usr/bin/ls" }
//	    }
//	}
//
// Object keys are module-relative offsets, so annotations stay attached to
// the same instruction when a module is loaded at a different address. On
// load every annotation is pending; Comments and Labels rebase each one
// against the current module map before returning it.
package session

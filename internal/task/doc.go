// Package task defines the board's task records and the pure operations that
// derive the next task collection from the current one.
//
// The persisted collection is a JSON array of task records:
//
//	[
//	  {
//	    "id": "5b0c3f5e-8a0e-4f5e-9a55-2c3f0b1d7e42",
//	    "title": "Ship the release",
//	    "priority": "high",
//	    "status": "todo",
//	    "tags": ["release"],
//	    "subtasks": [
//	      {"text": "tag the build", "done": false}
//	    ],
//	    "createdAt": "2026-01-01T00:00:00Z"
//	  }
//	]
//
// # Operations
//
// Create, Edit, Delete, Move and ToggleSubtask never modify the collection they
// are given. Each returns a fresh slice, or the input slice itself when the
// operation is a no-op, so callers can compare before writing.
//
// Operating on an unknown id or an out-of-range subtask index is a caller
// error and is reported as a *PreconditionError.
//
// # Validation
//
// Validate checks a raw payload against the bundled JSON Schema (draft
// 2020-12) and then checks id uniqueness, which the schema cannot express.
// When the schema cannot be compiled it falls back to minimal structural
// checks, like the minimal mode of the JSON file validators it grew out of.
//
// # Status Values
//
//   - "todo": not started
//   - "doing": in progress
//   - "done": complete
//
// # Priority Values
//
//   - "low", "med", "high"
package task

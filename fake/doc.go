// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake payloads and recyclers for testing.
// Provides predictable, controllable behavior for the core contracts.
package fake

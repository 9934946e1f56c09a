// Package plugin implements the Nushell plugin protocol over stdio.
//
// The shell starts the plugin with --stdio and exchanges tagged messages with
// it. The plugin first writes an encoding preamble (a length byte followed by
// "msgpack" or "json"), then both sides send Hello. After that the shell sends
// Call messages (Metadata, Signature, Run) and the plugin answers each one
// with a CallResponse in order. Pipeline input that arrives as a stream is
// collected into a single Value before the command runs, the same way simple
// plugin commands see their input.
//
// Values are kept as decoded trees. The plugin only looks inside the kinds it
// needs (String, Duration) and hands everything else back untouched.
package plugin

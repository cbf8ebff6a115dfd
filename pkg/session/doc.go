/*
Package session keeps live playback sessions for remote clients.

A session pairs a recorded run with its own playback.Player. The Manager
creates sessions under random UUIDs, fans player events out to subscribers
(the HTTP adapter streams them as Server-Sent Events) and closes sessions
that stay idle longer than the configured TTL.
*/
package session

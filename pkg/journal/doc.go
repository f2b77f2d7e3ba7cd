// Package journal records certificate lifecycle and reload events in a
// durable log, so operators can answer "when was this certificate last
// renewed and did the proxy pick it up" without trawling process logs.
//
// The SQLite backend is the production store; the memory backend exists
// for tests. Journaling is strictly observational: no control flow in
// either process depends on a journal read, and a journal write failure
// never fails the operation that produced the event.
package journal

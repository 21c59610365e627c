/*
Package lifecycle defines the closed vocabulary of application lifecycle
events and an in-process bus for publishing them.

The event set is a fixed enumeration: only the eleven named events exist,
and every API in this package rejects values outside the set. The Bus
delivers emissions synchronously to subscribers in subscription order,
which keeps handler effects observable as soon as Publish returns.
*/
package lifecycle

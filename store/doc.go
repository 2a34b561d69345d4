/*
Package store holds the in-memory zone and route catalog.

The Store is the sole authority over zone/route existence and referential
integrity; every other subsystem mutates catalog state only through its
operations. Routes are directional (pickup→dropoff), must reference zones
that exist at the time of every write, and get their ids from a monotonic
counter that never reuses a value.

State lives for the life of the process. There is no persistence layer;
a restart is an explicit reset boundary for callers, not a failure.
*/
package store

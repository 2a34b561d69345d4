/*
Package uploads orchestrates one trip-file batch end to end: rank the
records, ensure both zones of every ranked pair exist, then create or
update the corresponding route.

Failure handling is two-tiered. An invalid mode or an undecodable file is
fatal and no summary is produced. Everything after that is per item: a bad
pair or a store rejection becomes one entry in the summary's error list and
the batch keeps going.

Re-running an identical batch in create mode performs zero additional
writes.
*/
package uploads

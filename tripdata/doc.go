/*
Package tripdata decodes NYC TLC trip files into (pickup, dropoff) zone id
pairs.

Only the two location id columns are read; everything else in the file is
ignored. Files that cannot supply both columns fail fast with a SchemaError
so no partial ranking is ever produced downstream.
*/
package tripdata

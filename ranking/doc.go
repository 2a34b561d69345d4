// Package ranking derives the most frequent pickup→dropoff pairs from a
// window of trip records. Despite the project name this is frequency
// counting only; there is no cost model and no path search.
package ranking

// Package search is the query side of ticketvec: embed the query text and
// delegate ranking entirely to the store's native nearest-neighbor operator.
// An optional generative note summarises the hits for the operator.
package search

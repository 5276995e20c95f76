/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of model.
* Models are addressed by their primary key only.
* Easy queries for one and iteration.

Models are serialized with protocol buffers, see Model.
*/
package orm

/*
Package app contains the pieces needed to run the ledger as a local
application: a message router, decorator chaining, genesis loading and
the Node, which executes one transaction per block on top of a
persistent store.
*/
package app

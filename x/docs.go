/*
Package x contains some standard extensions

Extensions implement common functionality (Handler, Decorator, etc.)
for use in the ledger. All helpers shared between extensions live in
this package.
*/
package x

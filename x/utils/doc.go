/*
Package utils contains the decorators shared by every handler stack:
atomic savepoints, panic recovery, logging and result tagging.
*/
package utils

// Package common holds helpers shared by the tool packages: account
// resolution from request arguments and the instrumentation wrapper for
// tool handlers.
package common

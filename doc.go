// Package azmlclient invokes remote tabular-data scoring services, either
// synchronously with inputs and outputs inlined in the JSON body, or as batch
// jobs with inputs and outputs exchanged through blob storage.
//
// The table package converts between in-memory tables and the service's wire
// formats, transport performs the authenticated HTTP calls, blob moves CSV
// blobs in and out of storage and batch drives the asynchronous job
// lifecycle. Client ties them together.
package azmlclient

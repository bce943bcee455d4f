// Package errors defines the error taxonomy of the request pipeline.
//
// Errors raised before a request reaches the network (configuration,
// parameter, body and signing problems) are returned to the caller as
// *AppError values. Failures that happen on the wire never surface here;
// they are routed to the caller's failure handler by the executor.
package errors

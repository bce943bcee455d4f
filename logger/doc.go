// Package logger provides structured logging for oauthrest using zerolog.
//
// Every pipeline stage logs through a component-scoped *Logger so that a
// single call can be followed from assembly to handler dispatch by its
// call_id field.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg, "oauthrest").WithComponent("executor")
//	log.Debug("call submitted", logger.Fields("call_id", id, "method", "GET"))
package logger
